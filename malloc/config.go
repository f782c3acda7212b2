package malloc

import s "github.com/bnclabs/gosettings"

// Wordsize bytes per allocation word.
const Wordsize = int64(8)

// Maxarenasize maximum size of a memory arena. Can be used as default
// capacity for NewArena().
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024)

// Poolblocks number of blocks allocated together when a pool grows.
const Poolblocks = int64(64)

// Defaultsettings for arena instances.
//
// "minslab" (int64, default: 8)
//		Minimum number of words in an allocated block. Requests below
//		this size are rounded up.
//
// "maxslab" (int64, default: 1048576)
//		Maximum number of words in an allocated block. Requests above
//		this size panic, pick a budgeted heap allocator instead.
func Defaultsettings() s.Settings {
	return s.Settings{
		"minslab": int64(8),
		"maxslab": int64(1024 * 1024),
	}
}
