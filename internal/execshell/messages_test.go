package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForFetchNamesRemoteAndDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"fetch", "--tags", "--prune", "svc1"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Fetching branches and tags from svc1 into /workspace/core", message)
}

func TestBuildStartedMessageForOrphanCheckoutNamesBranch(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"checkout", "--orphan", "develop"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Creating orphan branch develop in /workspace/core", message)
}

func TestBuildStartedMessageForAncestryCheckNamesBothReferences(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"merge-base", "--is-ancestor", "refs/remotes/svc1/feature/x", "refs/remotes/svc1/develop"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Checking whether refs/remotes/svc1/feature/x is an ancestor of refs/remotes/svc1/develop in /workspace/core", message)
}

func TestBuildFailureMessageForMergeIncludesExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"merge", "--no-ff", "--no-commit", "--allow-unrelated-histories", "gomono/scratch"},
			WorkingDirectory: "/workspace/core",
		},
	}
	result := ExecutionResult{ExitCode: 1, StandardError: "CONFLICT (add/add)"}

	message := formatter.BuildFailureMessage(command, result)

	require.Equal(t, "Failed to merge gomono/scratch into the current branch of /workspace/core (exit code 1: CONFLICT (add/add))", message)
}

func TestBuildSuccessMessageForHistoryRewriteNamesScratchReference(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"filter-branch", "--force", "--index-filter", "git read-tree --empty", "--", "refs/heads/gomono/scratch"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildSuccessMessage(command)

	require.Equal(t, "Rewrote history of refs/heads/gomono/scratch in /workspace/core", message)
}

func TestBuildStartedMessageForTagCreationNamesTagAndTarget(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"tag", "--force", "svc1/v1.0", "gomono/scratch"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Creating tag svc1/v1.0 at gomono/scratch in /workspace/core", message)
}

func TestBuildStartedMessageForCommitQuotesMessage(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"commit", "--allow-empty", "-m", "Merging svc1 into develop"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, `Creating commit in /workspace/core with message "Merging svc1 into develop"`, message)
}

func TestBuildStartedMessageForUnmappedSubcommandFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"for-each-ref", "--format=%(refname)", "refs/remotes/svc1/"},
			WorkingDirectory: "/workspace/core",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Running git for-each-ref --format=%(refname) refs/remotes/svc1/ (in /workspace/core)", message)
}
