package chromebrowser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/playwright-community/playwright-go"
)

// ResolveChromePath returns the first of: explicitPath, $CHROME_PATH, a
// system Chromium or Chrome. It returns "" when nothing is found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range chromeCandidates(runtime.GOOS, os.Getenv) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// chromeCandidates lists install locations for goos, Chromium before Chrome.
func chromeCandidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "linux":
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome"}
	case "windows":
		var out []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := getenv(env)
			if root == "" {
				continue
			}
			out = append(out,
				root+`\Chromium\Application\chrome.exe`,
				root+`\Google\Chrome\Application\chrome.exe`,
			)
		}
		return out
	}
	return nil
}

// resolveExecutable returns nameOrPath if it is an existing absolute path,
// or its PATH lookup result for a bare command name.
func resolveExecutable(nameOrPath string) string {
	if nameOrPath == "" {
		return ""
	}
	if filepath.IsAbs(nameOrPath) || (len(nameOrPath) > 1 && nameOrPath[1] == ':') {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}

// InstallChromium downloads Playwright's Chromium build and returns its
// executable path.
func InstallChromium() (string, error) {
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
	}
	if err := playwright.Install(opts); err != nil {
		return "", fmt.Errorf("playwright install: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return "", fmt.Errorf("playwright run: %w", err)
	}
	defer pw.Stop()

	path := pw.Chromium.ExecutablePath()
	if resolveExecutable(path) == "" {
		return "", fmt.Errorf("chromium not found at %s", path)
	}
	return path, nil
}
