package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/config"
	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/storage"
)

// storageWatchCmd represents the storage watch command
var storageWatchCmd = &cobra.Command{
	Use:   "watch NAME",
	Short: "Watch the job queue of a local storage provider",
	Long: `Watch the job queue of a local storage provider.

Every job file that appears in the queue is reported, and the queue
heartbeat is refreshed so the backends stay operational. Only local
storage providers can be watched; remote providers are polled by the
hardware itself.

Example:
  qluedctl storage watch alqor`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		if err := watchQueue(name); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch queue: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	storageCmd.AddCommand(storageWatchCmd)
}

func watchQueue(name string) error {
	gormDB, err := db.Connect(db.Config{URL: db.URL()})
	if err != nil {
		return err
	}

	var entry model.StorageProvider
	if err := gormDB.Where("name = ?", strings.ToLower(name)).First(&entry).Error; err != nil {
		return fmt.Errorf("unknown storage provider %s", name)
	}
	if entry.StorageType != schemes.StorageTypeLocal {
		return fmt.Errorf("storage provider %s is %s, only local providers can be watched", name, entry.StorageType)
	}

	var login schemes.LocalLogin
	if err := json.Unmarshal([]byte(entry.Login), &login); err != nil {
		return fmt.Errorf("bad login document: %w", err)
	}

	provider, err := storage.FromEntry(&entry, config.Get().OperationalWindow())
	if err != nil {
		return err
	}

	queueRoot := filepath.Join(login.BasePath, "jobs", "queued")
	if err := os.MkdirAll(queueRoot, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the queue root plus the per-device directories below it.
	if err := watcher.Add(queueRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", queueRoot, err)
	}
	deviceDirs, _ := os.ReadDir(queueRoot)
	for _, dir := range deviceDirs {
		if dir.IsDir() {
			_ = watcher.Add(filepath.Join(queueRoot, dir.Name()))
		}
	}

	fmt.Printf("Watching %s for queued jobs (provider: %s)\n", queueRoot, entry.Name)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	heartbeat := time.NewTicker(time.Minute)
	defer heartbeat.Stop()

	ctx := context.Background()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				// A new device queue appeared, watch it too.
				_ = watcher.Add(event.Name)
				continue
			}
			device := filepath.Base(filepath.Dir(event.Name))
			fmt.Printf("[%s] Job queued on %s: %s\n",
				time.Now().Format(time.RFC3339), device, filepath.Base(event.Name))
			if err := provider.TimestampQueue(ctx, device); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to record heartbeat: %v\n", err)
			}

		case <-heartbeat.C:
			// Periodic heartbeat for every device that has a queue.
			dirs, err := os.ReadDir(queueRoot)
			if err != nil {
				continue
			}
			for _, dir := range dirs {
				if dir.IsDir() {
					_ = provider.TimestampQueue(ctx, dir.Name())
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)

		case <-sigChan:
			fmt.Println("Stopping watcher")
			return nil
		}
	}
}
