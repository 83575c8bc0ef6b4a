package fatctl

import (
	"github.com/spf13/cobra"

	"github.com/example-os/fatvol/internal/fsmount"
)

func defineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mount <image> <mountpoint>",
		Short:        "Mount a FAT volume image read-only via FUSE",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(args[0], args[1])
		},
	}
	return cmd
}

func runMount(image, mountpoint string) error {
	log := logger()
	defer log.Sync()

	v, err := openVolume(image, false)
	if err != nil {
		return err
	}
	defer v.Close()

	log.Infow("mounting volume", "image", image, "mountpoint", mountpoint)
	return fsmount.Mount(mountpoint, v.header)
}
