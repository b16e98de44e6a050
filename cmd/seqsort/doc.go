// Command seqsort sorts numbered camera files into sequence folders, either
// on demand (sort), continuously as cards are inserted (watch), or just
// reporting what it would do (status, sort --dryrun). History and
// configuration subcommands round out the surface.
package main
