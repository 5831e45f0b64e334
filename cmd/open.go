package cmd

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type OpenResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	URL    string `yaml:"url,omitempty"    json:"url,omitempty"`
	File   string `yaml:"file,omitempty"   json:"file,omitempty"`
	App    string `yaml:"app,omitempty"    json:"app,omitempty"`
	State  string `yaml:"state,omitempty"  json:"state,omitempty"`
}

var openCmd = &cobra.Command{
	Use:   "open [url or file path]",
	Short: "Open a URL, file, or application",
	Long: `Open a URL in the default browser, open a file with its default app, or launch an application.

Uses the macOS 'open' command under the hood.`,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("url", "", "Open a URL in the default browser (or --app browser)")
	openCmd.Flags().String("file", "", "Open a file with its default application (or --app)")
	openCmd.Flags().String("app", "", "Use a specific application to open the URL/file, or launch the app by itself")
	openCmd.Flags().Bool("wait", false, "Wait for the application to produce a UI element before returning")
	openCmd.Flags().Int("timeout", 10, "Max seconds to wait for the window (used with --wait)")
	addPostReadFlags(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	urlStr, _ := cmd.Flags().GetString("url")
	fileStr, _ := cmd.Flags().GetString("file")
	appName, _ := cmd.Flags().GetString("app")
	waitForWindow, _ := cmd.Flags().GetBool("wait")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	postRead, postReadDelay := getPostReadFlags(cmd)

	if len(args) > 0 && urlStr == "" && fileStr == "" {
		arg := args[0]
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			urlStr = arg
		} else {
			fileStr = arg
		}
	}

	if urlStr == "" && fileStr == "" && appName == "" {
		return fmt.Errorf("specify a URL, file, or --app to open")
	}

	var openArgs []string
	if appName != "" {
		openArgs = append(openArgs, "-a", appName)
	}
	if urlStr != "" {
		openArgs = append(openArgs, urlStr)
	} else if fileStr != "" {
		openArgs = append(openArgs, fileStr)
	}

	openExec := exec.Command("open", openArgs...)
	if out, err := openExec.CombinedOutput(); err != nil {
		return fmt.Errorf("open failed: %s (%w)", strings.TrimSpace(string(out)), err)
	}

	if waitForWindow && appName != "" {
		a, err := getActions()
		if err == nil {
			timeout := time.Duration(timeoutSec) * time.Second
			deadline := a.Now().Add(timeout)
			for a.Now().Before(deadline) {
				result, err := a.Find(element.ElementQuery{Application: appName, Limit: 1})
				if err == nil && len(result.Elements) > 0 {
					break
				}
				a.Sleep(500 * time.Millisecond)
			}
		}
	}

	result := OpenResult{OK: true, Action: "open", App: appName}
	if urlStr != "" {
		result.URL = urlStr
	}
	if fileStr != "" {
		result.File = fileStr
	}
	if postRead && appName != "" {
		if a, err := getActions(); err == nil {
			result.State = readPostActionState(a, appName, postReadDelay)
		}
	}

	return output.Print(result)
}
