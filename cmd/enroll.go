package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-checkin/internal/checkin"
	"github.com/kozaktomas/face-checkin/internal/config"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <directory>",
	Short: "Bulk-enroll identities from a directory tree",
	Long: `Bulk-enroll identities from a directory tree.

Each subdirectory of the given directory is one person: the subdirectory
name becomes the identity name and every image file inside it becomes an
enrollment sample.

Examples:
  # Enroll everyone under ./people (people/alice/*.jpg, people/bob/*.jpg, ...)
  face-checkin enroll ./people

  # Skip people that would collide with an already enrolled face
  face-checkin enroll --skip-duplicates ./people`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Bool("skip-duplicates", false, "Skip people whose face matches an already enrolled identity")
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// collectEnrollees scans the directory tree and returns one entry per
// subdirectory, sorted by name for deterministic enrollment order.
func collectEnrollees(root string) (map[string][]string, []string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", root, err)
	}

	people := make(map[string][]string)
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
		}
		var images []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if imageExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
				images = append(images, filepath.Join(dir, f.Name()))
			}
		}
		if len(images) == 0 {
			continue
		}
		sort.Strings(images)
		people[entry.Name()] = images
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return people, names, nil
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	skipDuplicates := mustGetBool(cmd, "skip-duplicates")

	people, names, err := collectEnrollees(args[0])
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No subdirectories with images found, nothing to enroll")
		return nil
	}

	svc, st, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("people"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	ctx := context.Background()
	enrolled := 0
	skipped := 0
	var failures []string

	for _, name := range names {
		images := make([][]byte, 0, len(people[name]))
		for _, path := range people[name] {
			data, err := os.ReadFile(path)
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			images = append(images, data)
		}

		err := svc.Register(ctx, name, images)
		switch {
		case err == nil:
			enrolled++
		case isDuplicate(err) && skipDuplicates:
			skipped++
		default:
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("Enrolled %d people (%d skipped, %d failed)\n", enrolled, skipped, len(failures))
	for _, f := range failures {
		fmt.Printf("  failed: %s\n", f)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d enrollments failed", len(failures))
	}
	return nil
}

func isDuplicate(err error) bool {
	var dup *checkin.DuplicateError
	return errors.As(err, &dup)
}
