package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"github.com/aromatt/xtemp/pkg/version"
)

// GitHub project queried by the release check.
const (
	releaseOwner = "aromatt"
	releaseRepo  = "xtemp"
)

// runUpdateCheck compares the running version against the newest GitHub
// release tag and reports the result. Release checks hit the network, so the
// command only does this when asked via --update.
func runUpdateCheck(cmd *cobra.Command) error {
	current := strings.TrimPrefix(version.GetVersion(), "v")

	githubTag := &latest.GithubTag{
		Owner:      releaseOwner,
		Repository: releaseRepo,
	}

	res, err := latest.Check(githubTag, current)
	if err != nil {
		// Best effort: a release check that cannot reach GitHub is a notice,
		// not a run failure.
		cmd.PrintErrf("update check failed: %v\n", err)
		return nil
	}

	if res.Outdated {
		cmd.Printf("A new version is available: %s (you have %s)\n", res.Current, current)
		cmd.Printf("Download it from https://github.com/%s/%s/releases\n", releaseOwner, releaseRepo)
		return nil
	}

	cmd.Printf("xtemp %s is up to date\n", current)
	return nil
}
