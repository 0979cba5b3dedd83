package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fashionbi/growth-engine/internal/config"
	"github.com/fashionbi/growth-engine/internal/storage"
	"github.com/urfave/cli/v2"
)

// runFixtureDownload pulls the snapshot CSV fixtures out of the configured
// S3-compatible bucket into the local seed directory.
func runFixtureDownload(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.NewS3Client(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	prefix := c.String("fixture-prefix")
	destDir := c.String("download-dir")

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure download dir %s: %w", destDir, err)
	}

	paths, err := downloadFixtures(c.Context, client, prefix, destDir)
	if err != nil {
		return err
	}

	for _, p := range paths {
		log.Printf("Downloaded %s\n", p)
	}
	log.Printf("Downloaded %d fixture files to %s\n", len(paths), destDir)
	return nil
}

func downloadFixtures(ctx context.Context, client storage.ObjectStorage, prefix, destDir string) ([]string, error) {
	listPrefix := strings.TrimSpace(prefix)
	objects, err := client.ListObjects(ctx, listPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for prefix %s: %w", listPrefix, err)
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no CSV files found for prefix %s", listPrefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(listPrefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(ctx, key, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
