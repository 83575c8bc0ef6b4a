package fatctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example-os/fatvol/fat"
)

func defineLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ls <image> [path]",
		Short:        "List a directory's entries",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 2 {
				path = args[1]
			}
			return runLs(args[0], path)
		},
	}
	return cmd
}

func runLs(image, path string) error {
	log := logger()
	defer log.Sync()

	v, err := openVolume(image, false)
	if err != nil {
		return err
	}
	defer v.Close()

	target, err := fat.SearchEntry(v.header, path)
	if err != nil {
		return err
	}
	if !target.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}

	cb := func(e *fat.DirEntry, longName string) bool {
		name := longName
		if name == "" {
			name = fat.ShortName(e)
		}
		if name == "." || name == ".." {
			return false
		}
		kind := "-"
		if e.Attr&fat.AttrDirectory != 0 {
			kind = "d"
		}
		fmt.Printf("%s %10d %s\n", kind, e.FileSize, name)
		return false
	}

	if target.IsRoot() {
		err = fat.WalkRoot(v.header, cb)
	} else {
		err = fat.WalkDirectory(v.header, target.FirstCluster(), cb)
	}
	return err
}
