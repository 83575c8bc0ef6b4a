package fatctl

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/example-os/fatvol/fat"
)

// scanRecord is one row of a recursive directory listing; the csv tags
// are what gocsv uses for --csv export.
type scanRecord struct {
	Path  string `csv:"path"`
	Size  uint32 `csv:"size"`
	IsDir bool   `csv:"is_dir"`
}

func defineScanCommand() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:          "scan <image> [path]",
		Short:        "Recursively list a subtree, tolerating per-directory corruption",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 2 {
				path = args[1]
			}
			return runScan(args[0], path, csvPath)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the listing to this CSV file instead of stdout")
	return cmd
}

func runScan(image, path, csvPath string) error {
	log := logger()
	defer log.Sync()

	v, err := openVolume(image, false)
	if err != nil {
		return err
	}
	defer v.Close()

	root, err := fat.SearchEntry(v.header, path)
	if err != nil {
		return err
	}
	if !root.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}

	var records []scanRecord
	var scanErrs []error
	scanTree(v.header, root, path, &records, &scanErrs)

	if len(scanErrs) > 0 {
		merr := multierror.Append(nil, scanErrs...)
		log.Warnw("scan completed with errors", "count", len(scanErrs), "errors", merr.Error())
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return gocsv.MarshalFile(&records, f)
	}

	for _, r := range records {
		kind := "file"
		if r.IsDir {
			kind = "dir"
		}
		fmt.Printf("%-5s %10d %s\n", kind, r.Size, r.Path)
	}
	return nil
}

// scanTree recursively lists root's subtree into records, appending a
// per-directory error to errs (rather than aborting the whole scan) when
// a subdirectory's chain turns out corrupt.
func scanTree(h *fat.Header, dir *fat.ResolvedEntry, prefix string, records *[]scanRecord, errs *[]error) {
	type pending struct {
		entry *fat.ResolvedEntry
		path  string
	}
	var subdirs []pending

	cb := func(e *fat.DirEntry, longName string) bool {
		name := longName
		if name == "" {
			name = fat.ShortName(e)
		}
		if name == "." || name == ".." {
			return false
		}

		full := prefix
		if full != "/" {
			full += "/"
		}
		full += name

		isDir := e.Attr&fat.AttrDirectory != 0
		*records = append(*records, scanRecord{Path: full, Size: e.FileSize, IsDir: isDir})
		if isDir {
			subdirs = append(subdirs, pending{entry: fat.NewEntry(e, longName), path: full})
		}
		return false
	}

	var err error
	if dir.IsRoot() {
		err = fat.WalkRoot(h, cb)
	} else {
		err = fat.WalkDirectory(h, dir.FirstCluster(), cb)
	}
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", prefix, err))
		return
	}

	for _, s := range subdirs {
		scanTree(h, s.entry, s.path, records, errs)
	}
}
