package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

// AppVersion is stamped at build time via -ldflags.
var AppVersion = "v0.1.0"

const releaseURL = "https://api.github.com/repos/mehran-shabani/llm-workspace-api/releases/latest"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(AppVersion)
			checkForUpdates()
		},
	}
}

// checkForUpdates compares against the latest GitHub release. Network
// problems are silently ignored; this is advisory output only.
func checkForUpdates() {
	client := http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(releaseURL)
	if err != nil {
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	current, err := goversion.NewVersion(AppVersion)
	if err != nil {
		return
	}
	latest, err := goversion.NewVersion(release.TagName)
	if err != nil {
		return
	}

	if current.LessThan(latest) {
		fmt.Printf("A newer release is available: %s (running %s)\n", release.TagName, AppVersion)
	}
}
