package gus

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/ternarybob/rogo/internal/interfaces"
)

// SystemBrowser returns a BrowserOpener that launches the platform's default
// browser. Tests substitute a fake that drives the callback directly.
func SystemBrowser() interfaces.BrowserOpener {
	return interfaces.BrowserOpenerFunc(openSystemBrowser)
}

func openSystemBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}
