package main

import (
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Playwright driver and Chromium",
	RunE: func(cmd *cobra.Command, args []string) error {
		return playwright.Install(&playwright.RunOptions{
			Browsers: []string{"chromium"},
		})
	},
}
