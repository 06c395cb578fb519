/*
The sync package implements indexsync's replication algorithm. It copies the
files of locally built indexes to replica hosts, and installs them without
ever letting a replica's search daemon see a partially copied index.

There are three sets of files per index and replica:
1) SourceFiles -- The index files on this machine, named after the index's
   path, e.g. `/var/lib/sphinx/data-build.sp0`.
2) StagedFiles -- Copies of the SourceFiles in the `tmp` subdirectory of the
   replica's index directory. Copying is slow, so it happens away from the
   files the daemon reads.
3) LiveFiles -- The staged files after they've been renamed with the `.new.`
   tag and moved into the index directory, e.g. `/var/lib/sphinx/data.new.sp0`.
   The daemon rotates them into place when it's sent SIGHUP.

The rename and the move happen on the replica's own filesystem, so the window
where a set of LiveFiles is incomplete is short, and the daemon isn't
signaled until every index for every replica has been moved.
*/
package sync
