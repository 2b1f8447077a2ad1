package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in dicot's version
	VersionMajor = 0
	// VersionMinor is the minor number in dicot's version
	VersionMinor = 0
	// VersionPatch is the patch number in dicot's version
	VersionPatch = 1
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dicot",
		Long:  `All software has versions. This is dicot's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dicot v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
