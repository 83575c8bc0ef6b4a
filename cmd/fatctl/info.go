package fatctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example-os/fatvol/fat"
)

func defineInfoCommand() *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:          "info <image>",
		Short:        "Print volume geometry and classification",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0], skipChecks)
		},
	}
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "skip BPB sanity checks")
	return cmd
}

func runInfo(path string, skipChecks bool) error {
	log := logger()
	defer log.Sync()

	v, err := openVolume(path, skipChecks)
	if err != nil {
		return err
	}
	defer v.Close()

	h := v.header
	log.Debugw("decoded volume header", "path", path, "type", fat.GetType(h))

	fmt.Printf("type:             %s\n", fat.GetType(h))
	fmt.Printf("label:            %q\n", h.Label)
	fmt.Printf("bytes/sector:     %d\n", h.BytesPerSector)
	fmt.Printf("sectors/cluster:  %d\n", h.SectorsPerCluster)
	fmt.Printf("reserved sectors: %d\n", h.ReservedSectorCount)
	fmt.Printf("fat count:        %d\n", h.NumFATs)
	fmt.Printf("fat size sectors: %d\n", h.FatSizeSectors)
	fmt.Printf("total sectors:    %d\n", h.TotalSectors)
	fmt.Printf("first data sector:%d\n", h.FirstDataSector)
	if h.Type == fat.Type32 {
		fmt.Printf("root cluster:     %d\n", h.RootCluster)
	} else {
		fmt.Printf("root dir sectors: %d\n", h.RootDirSectors)
	}
	fmt.Printf("used bytes (est): %d\n", fat.UsedBytes(h))

	return nil
}
