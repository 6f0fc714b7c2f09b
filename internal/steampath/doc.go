// Package steampath discovers the local Steam installation and derives the
// paths and player names the save manager needs from it.
//
// Everything here is a local file read: the game's save directory is
// computed from known install layouts, and persona names come from Steam's
// loginusers.vdf. No network calls are made; resolving an avatar image for
// an identity remains the frontend's job.
package steampath
