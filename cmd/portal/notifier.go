package main

import (
	"github.com/gookit/color"

	"portal-chat/contract"
)

// consoleNotifier satisfies the platform notification capability on a
// terminal. Permission is always granted; notifications print colored.
type consoleNotifier struct{}

func (consoleNotifier) PermissionState() contract.Permission {
	return contract.PermissionGranted
}

func (consoleNotifier) RequestPermission() contract.Permission {
	return contract.PermissionGranted
}

func (consoleNotifier) Show(title, body string) {
	color.Yellow.Printf("🔔 %s\n", title)
	color.Gray.Printf("   %s\n", body)
}
