package cmd

import (
	"io"
	"os"
	"text/template"

	"github.com/blang/semver"
	"github.com/oneconcern/catalog/pkg/dlogger"
	"github.com/oneconcern/catalog/pkg/errors"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const githubRepo = "oneconcern/catalog"

var (
	errNotReleased   = errors.New("you are not running a released version of catalog. Skipping upgrade")
	errNoRelease     = errors.New("no matching release from github repo")
	errFetchRelease  = errors.New("could not fetch release from github repo")
	errUpgradeFailed = errors.New("binary update failed")
)

var releaseDescriptorTemplate = template.Must(template.New("release").Parse(`
catalog {{ printf "%v" .Version }} ({{ .RepoOwner }}/{{ .RepoName }}){{ with .PublishedAt }}, published on {{ .Format "2006-01-02" }}{{ end }}
{{ .URL }}
{{- with .ReleaseNotes }}

{{ . }}
{{- end }}

Registered clones and downloaded versions are left untouched by an upgrade.
Run "catalog config list" to review them, "catalog update NAME" to fetch new catalog versions.
`))

func applyReleaseTemplate(w io.Writer, release *selfupdate.Release) error {
	if err := releaseDescriptorTemplate.Execute(w, release); err != nil {
		return errors.New("executing template").Wrap(err)
	}
	return nil
}

type upgradeFlags struct {
	checkOnly    bool
	forceUpgrade bool
	verbose      bool
	selfBinary   string // overrides the binary to replace, so tests never overwrite the test binary
}

// currentRelease parses the version of the running binary. ok is false for development builds.
func currentRelease() (semver.Version, bool) {
	v, err := semver.ParseTolerant(NewVersionInfo().Version)
	return v, err == nil
}

func doSelfUpgrade(w io.Writer, opts upgradeFlags) error {
	var err error
	if opts.selfBinary == "" {
		opts.selfBinary, err = os.Executable()
		if err != nil {
			return errors.New("cannot determine current executable").Wrap(err)
		}
	}

	v, released := currentRelease()
	if !released {
		if !opts.forceUpgrade {
			return errNotReleased
		}
		infoLogger.Printf("you are not running a released version of catalog (%v). Forcing upgrade", NewVersionInfo().Version)
	}
	if opts.verbose {
		selfupdate.EnableLog()
	}

	latest, err := selfupdate.UpdateCommand(opts.selfBinary, v, githubRepo)
	if err != nil {
		return errUpgradeFailed.Wrap(err)
	}
	if latest.Version.Equals(v) {
		infoLogger.Println("you are running the latest version of catalog", v)
		return nil
	}
	infoLogger.Println("successfully updated to version", latest.Version)
	return applyReleaseTemplate(w, latest)
}

func doCheckVersion(w io.Writer) error {
	v, released := currentRelease()
	latest, found, err := selfupdate.DefaultUpdater().DetectLatest(githubRepo)
	if err != nil {
		return errFetchRelease.Detail("%s", githubRepo).Wrap(err)
	}
	if !found {
		return errNoRelease.Detail("%s", githubRepo)
	}
	if released && latest.Version.Equals(v) {
		infoLogger.Println("you are running the latest version of catalog", v)
		return nil
	}
	infoLogger.Printf("currently running release: %v", NewVersionInfo().Version)
	infoLogger.Printf("latest available release: %v", latest.Version)
	return applyReleaseTemplate(w, latest)
}

var selfUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrades catalog to the latest release",
	Long: `Checks for the latest release on github then upgrades.
By default the upgrade is skipped if the current catalog binary is not a released version.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogFlags.upgrade.verbose = cliConfig != nil && cliConfig.LogLevel == dlogger.LogLevelDebug
		if catalogFlags.upgrade.checkOnly {
			if err := doCheckVersion(cmd.OutOrStdout()); err != nil {
				wrapFatalln("error checking latest release", err)
			}
			return
		}
		if err := doSelfUpgrade(cmd.OutOrStdout(), catalogFlags.upgrade); err != nil {
			wrapFatalln("error trying to update catalog", err)
		}
	},
}

func init() {
	addUpgradeCheckOnlyFlag(selfUpgradeCmd)
	addUpgradeForceFlag(selfUpgradeCmd)
	rootCmd.AddCommand(selfUpgradeCmd)
}
