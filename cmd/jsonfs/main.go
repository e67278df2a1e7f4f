// Command jsonfs mounts a JSON file as a POSIX directory tree: objects
// become directories, scalars become files, and a .save control file
// persists edits back to the source document.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"

	"jsonfs/internal/activity"
	"jsonfs/internal/config"
	"jsonfs/internal/fsmount"
	"jsonfs/internal/fsops"
	"jsonfs/internal/watcher"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("jsonfs: %v", err)
	}

	uid, gid := os.Getuid(), os.Getgid()
	state, err := fsmount.Load(cfg.JSONFile, uint32(uid), uint32(gid), cfg.CacheSize)
	if err != nil {
		log.Fatalf("jsonfs: load %s: %v", cfg.JSONFile, err)
	}

	w, err := watcher.New(state.SourcePath)
	if err != nil {
		log.Printf("jsonfs: watcher disabled: %v", err)
	} else {
		defer w.Close()
	}

	var feed *activity.Server
	if !cfg.NoActivity {
		feed, err = activity.New(cfg.ActivityAddr, state)
		if err != nil {
			log.Fatalf("jsonfs: start activity feed: %v", err)
		}
		state.Notify = feed.Publish
		go func() {
			if err := feed.Start(); err != nil {
				log.Printf("jsonfs: activity feed stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = feed.Shutdown(ctx)
		}()
		log.Printf("jsonfs: activity feed on http://%s", feed.Addr())
	}

	nfs := pathfs.NewPathNodeFs(fsops.New(state), nil)
	conn := nodefs.NewFileSystemConnector(nfs.Root(), nodefs.NewOptions())

	mountOpts := fuse.MountOptions{
		Name:          "jsonfs",
		FsName:        cfg.JSONFile,
		AllowOther:    cfg.AllowOther,
		Options:       cfg.FuseOptions,
		DisableXAttrs: true,
	}

	server, err := fuse.NewServer(conn.RawFS(), cfg.Mount, &mountOpts)
	if err != nil {
		log.Fatalf("jsonfs: mount %s: %v", cfg.Mount, err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Println("jsonfs: unmounting on signal")
		if err := server.Unmount(); err != nil {
			log.Printf("jsonfs: unmount: %v", err)
		}
	}()

	log.Printf("jsonfs: mounted %s at %s", cfg.JSONFile, cfg.Mount)
	server.Serve()
}
