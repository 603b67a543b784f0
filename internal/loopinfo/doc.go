// Package loopinfo provides the loop-tree bookkeeping the jump-threading
// engine treats as an external collaborator: header/latch
// access, loop-exit testing, the loop-copy table used while peeling headers,
// and the two "loops need fixup" state flags the engine sets when it cannot
// safely keep loop structure exact.
package loopinfo
