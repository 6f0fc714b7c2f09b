package savegame

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"reposave/internal/container"
)

// Document paths used by the game. runStats and the per-player groups all
// live under the dictionaryOfDictionaries envelope.
const (
	pathTeamName    = "teamName.value"
	pathPlayerNames = "playerNames.value"
	pathDictionary  = "dictionaryOfDictionaries.value"
	pathRunStats    = pathDictionary + ".runStats"
	pathHealthGroup = pathDictionary + ".playerHealth"

	upgradeKeyPrefix = "playerUpgrade"
)

var (
	// ErrInvalidValue reports a setter called with a negative value. Edits
	// never clamp; clamping is a load-time leniency only.
	ErrInvalidValue = errors.New("value must not be negative")

	// ErrUnknownPlayer reports an edit addressed to an identity the
	// document does not contain.
	ErrUnknownPlayer = errors.New("unknown player identity")
)

// Identity is the stable per-player key used inside the document's player
// map. Identities originate from the document and are never synthesized;
// they round-trip byte-for-byte even when unrecognized.
type Identity string

// WorldState holds the run-wide fields the editor exposes.
type WorldState struct {
	Level                 int
	Currency              int
	Lives                 int
	ChargingStationCharge float64
	TotalHaul             float64
	TeamName              string
}

// Upgrade is one entry of a player's open upgrade map.
type Upgrade struct {
	Name  string
	Level int
}

// PlayerState holds the per-player fields the editor exposes. Upgrades keeps
// first-observed document order; names the model has never seen are ordinary
// entries, not special cases.
type PlayerState struct {
	Identity    Identity
	DisplayName string
	Health      int
	Upgrades    []Upgrade
}

// Model is the typed view over one decoded document. It is constructed fresh
// by Parse, mutated only through its setters, and discarded after Serialize.
// Warnings records load-time clamps; an empty slice means the document was
// clean.
type Model struct {
	World    WorldState
	Players  []*PlayerState
	Warnings []string

	doc container.Document
}

// Parse builds a Model from doc. Negative numeric fields are clamped to zero
// with a recorded warning instead of failing: a save the game itself accepts
// must stay openable here.
func Parse(doc container.Document) (*Model, error) {
	if !gjson.ValidBytes(doc) {
		return nil, container.ErrMalformedDocument
	}
	m := &Model{doc: append(container.Document(nil), doc...)}
	m.parseWorld()
	m.parsePlayers()
	return m, nil
}

// Serialize returns the document with all applied edits. Untouched regions
// are the exact bytes Parse received.
func (m *Model) Serialize() (container.Document, error) {
	if !gjson.ValidBytes(m.doc) {
		return nil, container.ErrMalformedDocument
	}
	return append(container.Document(nil), m.doc...), nil
}

// Player returns the state for id, or nil when the document has no such
// player.
func (m *Model) Player(id Identity) *PlayerState {
	for _, p := range m.Players {
		if p.Identity == id {
			return p
		}
	}
	return nil
}

// UpgradeLevel returns the named upgrade level for id, with ok reporting
// whether the upgrade exists on that player.
func (p *PlayerState) UpgradeLevel(name string) (int, bool) {
	for _, u := range p.Upgrades {
		if u.Name == name {
			return u.Level, true
		}
	}
	return 0, false
}

func (m *Model) parseWorld() {
	run := gjson.GetBytes(m.doc, pathRunStats)
	m.World.Level = m.clampInt(run.Get("level"), "runStats.level")
	m.World.Currency = m.clampInt(run.Get("currency"), "runStats.currency")
	m.World.Lives = m.clampInt(run.Get("lives"), "runStats.lives")
	m.World.ChargingStationCharge = m.clampFloat(run.Get("chargingStationCharge"), "runStats.chargingStationCharge")
	m.World.TotalHaul = m.clampFloat(run.Get("totalHaul"), "runStats.totalHaul")
	m.World.TeamName = gjson.GetBytes(m.doc, pathTeamName).String()
}

func (m *Model) parsePlayers() {
	healthGroup := gjson.GetBytes(m.doc, pathHealthGroup)

	gjson.GetBytes(m.doc, pathPlayerNames).ForEach(func(key, value gjson.Result) bool {
		id := Identity(key.String())
		player := &PlayerState{
			Identity:    id,
			DisplayName: value.String(),
		}
		if health := healthGroup.Get(escapePathPart(string(id))); health.Exists() {
			player.Health = m.clampInt(health, "playerHealth."+string(id))
		}
		m.Players = append(m.Players, player)
		return true
	})

	// Upgrade groups are dynamically named; walk the envelope in document
	// order so each player's map keeps the order the file introduced.
	gjson.GetBytes(m.doc, pathDictionary).ForEach(func(key, group gjson.Result) bool {
		name := strings.TrimPrefix(key.String(), upgradeKeyPrefix)
		if name == key.String() || name == "" {
			return true
		}
		for _, player := range m.Players {
			level := group.Get(escapePathPart(string(player.Identity)))
			if !level.Exists() {
				continue
			}
			player.Upgrades = append(player.Upgrades, Upgrade{
				Name:  name,
				Level: m.clampInt(level, key.String()+"."+string(player.Identity)),
			})
		}
		return true
	})
}

func (m *Model) clampInt(v gjson.Result, field string) int {
	n := v.Int()
	if n < 0 {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s is %d, clamped to 0", field, n))
		return 0
	}
	return int(n)
}

func (m *Model) clampFloat(v gjson.Result, field string) float64 {
	f := v.Float()
	if f < 0 {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s is %v, clamped to 0", field, f))
		return 0
	}
	return f
}

func gjsonDictionaryKeys(doc container.Document) []string {
	var keys []string
	gjson.GetBytes(doc, pathDictionary).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// escapePathPart escapes gjson/sjson path metacharacters in a single key so
// identities and upgrade names are always treated as literal object keys.
func escapePathPart(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// setPathPart prepares a key for an sjson write path. All-digit keys (the
// usual shape of a platform identity) get sjson's colon prefix so they are
// forced to be object keys; without it sjson would create a sparse array.
func setPathPart(key string) string {
	allDigits := key != ""
	for _, r := range key {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return ":" + key
	}
	return escapePathPart(key)
}
