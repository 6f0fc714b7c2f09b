// Package savegame maps a decoded save document onto a typed model and
// applies edits back to it.
//
// The game's document keys players by their platform account id and spreads
// per-player upgrade levels across dynamically named groups
// (playerUpgradeHealth, playerUpgradeSpeed, ...). The model mirrors that with
// ordered identity-keyed players and an open upgrade map instead of a fixed
// schema, so a save written by a newer game version parses without losses.
//
// Edits are applied by path against the underlying document bytes rather
// than by re-emitting the whole tree. Anything the model does not interpret
// — future top-level keys, unrecognized per-player fields — is therefore
// carried through a parse/serialize cycle byte-for-byte.
package savegame
