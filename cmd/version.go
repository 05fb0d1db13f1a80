// Package cmd - version command showing build and runtime info
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var versionOutputFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Long: `Display version information including:

  - waterx-admin version, build time, and git commit
  - Go runtime version
  - Operating system and architecture

Examples:
  waterx-admin version
  waterx-admin version --format json
  waterx-admin version --format short`,
	Run: runVersionCmd,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&versionOutputFormat, "format", "table", "Output format (table, json, short)")
}

type versionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func runVersionCmd(cmd *cobra.Command, args []string) {
	info := collectVersionInfo()

	switch versionOutputFormat {
	case "json":
		outputVersionJSON(info)
	case "short":
		fmt.Printf("waterx-admin %s\n", info.Version)
	default:
		outputTable(info)
	}
}

func collectVersionInfo() versionInfo {
	return versionInfo{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		GitCommit: cfg.GitCommit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func outputVersionJSON(info versionInfo) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(info)
}

func outputTable(info versionInfo) {
	commit := info.GitCommit
	if len(commit) > 40 {
		commit = commit[:40]
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  waterx-admin Version Info                    ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  %-20s %-40s ║\n", "Version:", info.Version)
	fmt.Printf("║  %-20s %-40s ║\n", "Build Time:", info.BuildTime)
	fmt.Printf("║  %-20s %-40s ║\n", "Git Commit:", commit)
	fmt.Println("╠═══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  %-20s %-40s ║\n", "Go Version:", info.GoVersion)
	fmt.Printf("║  %-20s %-40s ║\n", "OS/Arch:", fmt.Sprintf("%s/%s", info.OS, info.Arch))
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Println()
}
