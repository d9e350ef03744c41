package main

import (
	"flag"
	"fmt"
	"os"

	"cronguard/internal/tracker"
)

func unlockCmd(args []string) int {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	rootFlag := fs.String("root", "", "Install root (default: the executable's directory)")
	force := fs.Bool("force", false, "Remove the lock even if its holder is alive")
	fs.Parse(args)

	root := resolveRoot(*rootFlag)
	trk := tracker.NewWriter(root)

	lock, err := trk.ReadLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read lock: %v\n", err)
		return 1
	}
	if lock == nil {
		fmt.Println("No lock present.")
		return 0
	}

	if tracker.HolderAlive(lock) && !*force {
		fmt.Fprintf(os.Stderr, "Lock is held by live pid %d (run_id=%s). Use -force to remove anyway.\n",
			lock.PID, lock.RunID)
		return 1
	}

	if err := trk.RemoveLock(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove lock: %v\n", err)
		return 1
	}
	fmt.Printf("Removed lock held by pid %d (run_id=%s).\n", lock.PID, lock.RunID)
	return 0
}
