// Package batch orchestrates a full sort: it scans the source roots, groups
// frames into sequences, plans the destination layout, moves files, and
// optionally encodes previews and records history. Each invocation is
// self-contained; nothing persists between runs except the files themselves
// and the optional journal rows.
package batch
