package sync_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	synccmd "github.com/tyemirov/gsync/cmd/cli/sync"
	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/repos/shared"
	syncservice "github.com/tyemirov/gsync/internal/sync"
)

type recordingGitExecutor struct {
	gitCalls       []execshell.CommandDetails
	githubCLICalls []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitCalls = append(executor.gitCalls, details)
	return execshell.ExecutionResult{ExitCode: 0}, nil
}

func (executor *recordingGitExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.githubCLICalls = append(executor.githubCLICalls, details)
	return execshell.ExecutionResult{ExitCode: 0}, nil
}

type stubMetadataClient struct {
	login              string
	organizations      []string
	repositories       []shared.OwnerRepository
	listedOwners       []string
	resolveLoginCalled bool
}

func (client *stubMetadataClient) ResolveAuthenticatedLogin(_ context.Context) (string, error) {
	client.resolveLoginCalled = true
	return client.login, nil
}

func (client *stubMetadataClient) ListOrganizations(_ context.Context) []string {
	return client.organizations
}

func (client *stubMetadataClient) ListOwnerRepositories(_ context.Context, owner string) ([]shared.OwnerRepository, error) {
	client.listedOwners = append(client.listedOwners, owner)
	return client.repositories, nil
}

type stubWorkspaceDiscoverer struct {
	directoryNames []string
	repositories   []shared.LocalRepository
	scannedRoots   []string
}

func (discoverer *stubWorkspaceDiscoverer) DiscoverRepositories(rootDirectory string) ([]shared.LocalRepository, error) {
	discoverer.scannedRoots = append(discoverer.scannedRoots, rootDirectory)
	return discoverer.repositories, nil
}

func (discoverer *stubWorkspaceDiscoverer) ListDirectoryNames(rootDirectory string) ([]string, error) {
	discoverer.scannedRoots = append(discoverer.scannedRoots, rootDirectory)
	return discoverer.directoryNames, nil
}

func mustOwnerRepository(t *testing.T, qualifiedName string) shared.OwnerRepository {
	t.Helper()
	ownerRepository, creationError := shared.NewOwnerRepository(qualifiedName)
	require.NoError(t, creationError)
	return ownerRepository
}

func TestCloneCommandBuilderExecuteClonesMissingRepositories(t *testing.T) {
	gitExecutor := &recordingGitExecutor{}
	metadataClient := &stubMetadataClient{
		repositories: []shared.OwnerRepository{
			mustOwnerRepository(t, "octocat/web"),
			mustOwnerRepository(t, "octocat/api"),
		},
	}
	workspaceDiscoverer := &stubWorkspaceDiscoverer{directoryNames: []string{"web"}}

	builder := &synccmd.CloneCommandBuilder{
		GitExecutor:  gitExecutor,
		Discoverer:   workspaceDiscoverer,
		GitHubClient: metadataClient,
	}

	input := strings.NewReader("a\ny\n")
	output := &bytes.Buffer{}

	executionError := builder.Execute(context.Background(), synccmd.CloneExecutionOptions{
		Owner:           "octocat",
		TargetDirectory: "/tmp/projects",
	}, input, output)
	require.NoError(t, executionError)

	require.Equal(t, []string{"octocat"}, metadataClient.listedOwners)
	require.Len(t, gitExecutor.githubCLICalls, 1)
	require.Equal(t, []string{"repo", "clone", "octocat/api"}, gitExecutor.githubCLICalls[0].Arguments)
	require.Equal(t, "/tmp/projects", gitExecutor.githubCLICalls[0].WorkingDirectory)
	require.Contains(t, output.String(), "Cloned 1 of 1 repositories.")
}

func TestCloneCommandBuilderExecuteSkipsPromptWithAssumeYes(t *testing.T) {
	gitExecutor := &recordingGitExecutor{}
	metadataClient := &stubMetadataClient{
		repositories: []shared.OwnerRepository{mustOwnerRepository(t, "octocat/api")},
	}

	builder := &synccmd.CloneCommandBuilder{
		GitExecutor:  gitExecutor,
		Discoverer:   &stubWorkspaceDiscoverer{},
		GitHubClient: metadataClient,
	}

	output := &bytes.Buffer{}
	executionError := builder.Execute(context.Background(), synccmd.CloneExecutionOptions{
		Owner:           "octocat",
		TargetDirectory: "/tmp/projects",
		AssumeYes:       true,
	}, strings.NewReader("a\n"), output)
	require.NoError(t, executionError)

	require.Len(t, gitExecutor.githubCLICalls, 1)
	require.NotContains(t, output.String(), "[y/N]")
}

func TestCloneCommandBuilderExecuteReportsAuthenticationRequired(t *testing.T) {
	builder := &synccmd.CloneCommandBuilder{
		GitExecutor:  &recordingGitExecutor{},
		Discoverer:   &stubWorkspaceDiscoverer{},
		GitHubClient: &stubMetadataClient{login: ""},
	}

	executionError := builder.Execute(context.Background(), synccmd.CloneExecutionOptions{
		TargetDirectory: "/tmp/projects",
	}, strings.NewReader(""), &bytes.Buffer{})
	require.ErrorIs(t, executionError, syncservice.ErrAuthenticationRequired)
}

func TestCloneCommandFlagsOverrideConfiguredDefaults(t *testing.T) {
	gitExecutor := &recordingGitExecutor{}
	metadataClient := &stubMetadataClient{
		repositories: []shared.OwnerRepository{mustOwnerRepository(t, "acme/tools")},
	}

	builder := &synccmd.CloneCommandBuilder{
		GitExecutor:  gitExecutor,
		Discoverer:   &stubWorkspaceDiscoverer{},
		GitHubClient: metadataClient,
		ConfigurationProvider: func() synccmd.CloneConfiguration {
			return synccmd.CloneConfiguration{Owner: "octocat", Directory: "/tmp/elsewhere"}
		},
	}

	command, buildError := builder.Build()
	require.NoError(t, buildError)

	output := &bytes.Buffer{}
	command.SetIn(strings.NewReader("a\ny\n"))
	command.SetOut(output)
	command.SetErr(output)
	command.SetArgs([]string{"--owner", "acme", "--directory", "/tmp/projects"})

	require.NoError(t, command.Execute())
	require.Equal(t, []string{"acme"}, metadataClient.listedOwners)
	require.Len(t, gitExecutor.githubCLICalls, 1)
	require.Equal(t, "/tmp/projects", gitExecutor.githubCLICalls[0].WorkingDirectory)
	require.False(t, metadataClient.resolveLoginCalled)
}

func TestPullCommandBuilderExecutePullsDiscoveredRepositories(t *testing.T) {
	gitExecutor := &recordingGitExecutor{}
	workspaceDiscoverer := &stubWorkspaceDiscoverer{
		repositories: []shared.LocalRepository{
			{Name: "api", Path: "/tmp/projects/api"},
			{Name: "web", Path: "/tmp/projects/web"},
		},
	}

	builder := &synccmd.PullCommandBuilder{
		GitExecutor: gitExecutor,
		Discoverer:  workspaceDiscoverer,
	}

	output := &bytes.Buffer{}
	executionError := builder.Execute(context.Background(), synccmd.PullExecutionOptions{
		TargetDirectory: "/tmp/projects",
	}, strings.NewReader(""), output)
	require.NoError(t, executionError)

	require.Len(t, gitExecutor.gitCalls, 2)
	require.Equal(t, []string{"pull", "--ff-only"}, gitExecutor.gitCalls[0].Arguments)
	require.Equal(t, "/tmp/projects/api", gitExecutor.gitCalls[0].WorkingDirectory)
	require.Equal(t, "/tmp/projects/web", gitExecutor.gitCalls[1].WorkingDirectory)
	require.Contains(t, output.String(), "Updated 2 of 2 repositories.")
}

func TestPullCommandBuilderExecuteReportsEmptyDirectory(t *testing.T) {
	builder := &synccmd.PullCommandBuilder{
		GitExecutor: &recordingGitExecutor{},
		Discoverer:  &stubWorkspaceDiscoverer{},
	}

	output := &bytes.Buffer{}
	executionError := builder.Execute(context.Background(), synccmd.PullExecutionOptions{
		TargetDirectory: "/tmp/projects",
	}, strings.NewReader(""), output)
	require.NoError(t, executionError)
	require.Contains(t, output.String(), "No Git repositories found under /tmp/projects.")
}
