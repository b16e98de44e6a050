// Package watch turns card insertion into sort batches. A udev netlink
// monitor picks up block partition events, lsblk polling waits for the
// automounter to finish, and the mounted path is handed to a caller-supplied
// handler once per insertion.
package watch
