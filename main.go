package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LaneLabeller/internal/config"
	"LaneLabeller/internal/export"
	"LaneLabeller/internal/imagefile"
	"LaneLabeller/internal/logging"
	"LaneLabeller/internal/persist"
	"LaneLabeller/internal/sequencer"
	"LaneLabeller/internal/ui"
)

const AppID = "io.github.lanelabel"

var (
	logger  *zap.Logger
	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "lanelabel [manifest | image...]",
	Short: "Mark lane points on a sequence of road images",
	Long: `Opens a window showing the images listed in a manifest, one per line.
Left click adds a point to the selected lane or grabs an existing one to drag,
right click removes a point. Annotations are saved as CSV next to each other
in the configured save directory whenever you move between images.

Image files can be given instead of a manifest to annotate just those.
Without an argument the last opened manifest is reopened.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgPath = config.DefaultPath()
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGUI,
}

var showCmd = &cobra.Command{
	Use:   "show <image>",
	Short: "Print the saved annotation of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := persist.New(cfg.SaveDir, logger)
		return printAnnotation(cmd.OutOrStdout(), store, args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <manifest> <out.pdf|out.xlsx>",
	Short: "Write a report of every annotated image in a manifest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := exportManifest(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d images to %s\n", n, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openTarget splits the command line into a manifest or an explicit image
// list. With no arguments the last manifest is used.
func openTarget(args []string, last string) (string, []string, error) {
	switch {
	case len(args) == 0:
		return last, nil, nil
	case len(args) == 1 && !imagefile.IsImageFile(args[0]):
		return args[0], nil, nil
	}
	for _, arg := range args {
		if !imagefile.IsImageFile(arg) {
			return "", nil, fmt.Errorf("%s: not an image file", arg)
		}
	}
	return "", args, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	manifest, images, err := openTarget(args, cfg.LastManifest)
	if err != nil {
		return err
	}

	a := ui.New(app.NewWithID(AppID), cfg, cfgPath, logger)
	switch {
	case len(images) > 0:
		err = a.OpenImages(images)
	case manifest != "":
		err = a.Open(manifest)
	}
	switch {
	case err == nil, errors.Is(err, sequencer.ErrImageUnavailable), errors.Is(err, persist.ErrMalformed):
		if err != nil {
			logger.Warn("opened with errors", zap.Error(err))
		}
	case len(args) > 0:
		return err
	default:
		logger.Warn("last manifest not reopened", zap.String("path", manifest), zap.Error(err))
	}
	a.Run()
	return nil
}

func printAnnotation(w io.Writer, store *persist.Store, image string) error {
	points, err := store.Load(image)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintf(w, "%s: no annotation in %s\n", filepath.Base(image), store.Dir())
		return nil
	}
	fmt.Fprintf(w, "%s: %d points (%s)\n", filepath.Base(image), len(points), store.Path(image))
	for i, p := range points {
		fmt.Fprintf(w, "%4d  %10.2f  %10.2f  %s\n", i, p.X, p.Y, p.Category.Name())
	}
	return nil
}

func exportManifest(manifest, out string) (int, error) {
	format, err := export.FormatFor(out)
	if err != nil {
		return 0, err
	}
	images, err := sequencer.ReadManifest(manifest)
	if err != nil {
		return 0, err
	}
	entries, err := export.Collect(images, persist.New(cfg.SaveDir, logger))
	if err != nil {
		return 0, err
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	if err := export.Write(f, format, entries, imagefile.Loader{}); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	logger.Info("exported", zap.String("manifest", manifest), zap.String("out", out), zap.Stringer("format", format))
	return len(entries), nil
}
