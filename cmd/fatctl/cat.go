package fatctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example-os/fatvol/fat"
)

func defineCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cat <image> <path>",
		Short:        "Print a file's contents to stdout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(args[0], args[1])
		},
	}
	return cmd
}

func runCat(image, path string) error {
	v, err := openVolume(image, false)
	if err != nil {
		return err
	}
	defer v.Close()

	entry, err := fat.SearchEntry(v.header, path)
	if err != nil {
		return err
	}
	if entry.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}

	buf := make([]byte, entry.Size())
	if _, err := fat.ReadWholeFile(v.header, entry, buf); err != nil {
		return err
	}

	_, err = os.Stdout.Write(buf)
	return err
}
