package savegame

import (
	"fmt"
	"math"

	"github.com/tidwall/sjson"
)

// WorldField names a numeric world field addressable through SetWorldField.
type WorldField string

const (
	FieldLevel                 WorldField = "level"
	FieldCurrency              WorldField = "currency"
	FieldLives                 WorldField = "lives"
	FieldChargingStationCharge WorldField = "chargingStationCharge"
	FieldTotalHaul             WorldField = "totalHaul"
)

var integerWorldFields = map[WorldField]bool{
	FieldLevel:    true,
	FieldCurrency: true,
	FieldLives:    true,
}

// SetWorldField updates one numeric world field in both the typed view and
// the document. Negative values fail with ErrInvalidValue, non-integral
// values fail for integer fields, and the model is left unchanged on error.
func (m *Model) SetWorldField(field WorldField, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s: %w", field, ErrInvalidValue)
	}
	integral := integerWorldFields[field]
	if integral && value != math.Trunc(value) {
		return fmt.Errorf("%s: %w: must be a whole number", field, ErrInvalidValue)
	}

	var err error
	path := pathRunStats + "." + string(field)
	if integral {
		m.doc, err = sjson.SetBytes(m.doc, path, int(value))
	} else {
		m.doc, err = sjson.SetBytes(m.doc, path, value)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}

	switch field {
	case FieldLevel:
		m.World.Level = int(value)
	case FieldCurrency:
		m.World.Currency = int(value)
	case FieldLives:
		m.World.Lives = int(value)
	case FieldChargingStationCharge:
		m.World.ChargingStationCharge = value
	case FieldTotalHaul:
		m.World.TotalHaul = value
	default:
		return fmt.Errorf("unknown world field %q", field)
	}
	return nil
}

// SetTeamName updates the team name.
func (m *Model) SetTeamName(name string) error {
	doc, err := sjson.SetBytes(m.doc, pathTeamName, name)
	if err != nil {
		return fmt.Errorf("set team name: %w", err)
	}
	m.doc = doc
	m.World.TeamName = name
	return nil
}

// SetPlayerHealth updates one player's health. The player must already exist
// in the document.
func (m *Model) SetPlayerHealth(id Identity, health int) error {
	player := m.Player(id)
	if player == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPlayer)
	}
	if health < 0 {
		return fmt.Errorf("health for %s: %w", id, ErrInvalidValue)
	}
	doc, err := sjson.SetBytes(m.doc, pathHealthGroup+"."+setPathPart(string(id)), health)
	if err != nil {
		return fmt.Errorf("set health for %s: %w", id, err)
	}
	m.doc = doc
	player.Health = health
	return nil
}

// SetUpgradeLevel updates one upgrade level for a player, creating the
// upgrade group and key when absent. New upgrade names are permitted so the
// editor can grant upgrades a save has never contained.
func (m *Model) SetUpgradeLevel(id Identity, name string, level int) error {
	player := m.Player(id)
	if player == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPlayer)
	}
	if name == "" {
		return fmt.Errorf("upgrade name: %w: must not be empty", ErrInvalidValue)
	}
	if level < 0 {
		return fmt.Errorf("upgrade %s for %s: %w", name, id, ErrInvalidValue)
	}

	path := pathDictionary + "." + escapePathPart(upgradeKeyPrefix+name) + "." + setPathPart(string(id))
	doc, err := sjson.SetBytes(m.doc, path, level)
	if err != nil {
		return fmt.Errorf("set upgrade %s for %s: %w", name, id, err)
	}
	m.doc = doc

	for i := range player.Upgrades {
		if player.Upgrades[i].Name == name {
			player.Upgrades[i].Level = level
			return nil
		}
	}
	player.Upgrades = append(player.Upgrades, Upgrade{Name: name, Level: level})
	return nil
}

// RemovePlayer deletes a player from the name map, the health group, and
// every upgrade group. Subtrees the model does not interpret are untouched.
func (m *Model) RemovePlayer(id Identity) error {
	if m.Player(id) == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPlayer)
	}

	idPart := setPathPart(string(id))
	doc := m.doc
	paths := []string{pathPlayerNames + "." + idPart, pathHealthGroup + "." + idPart}
	for _, key := range m.upgradeGroupKeys() {
		paths = append(paths, pathDictionary+"."+escapePathPart(key)+"."+idPart)
	}
	for _, path := range paths {
		next, err := sjson.DeleteBytes(doc, path)
		if err != nil {
			return fmt.Errorf("remove player %s: %w", id, err)
		}
		doc = next
	}
	m.doc = doc

	for i, p := range m.Players {
		if p.Identity == id {
			m.Players = append(m.Players[:i], m.Players[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Model) upgradeGroupKeys() []string {
	var keys []string
	for _, key := range gjsonDictionaryKeys(m.doc) {
		if len(key) > len(upgradeKeyPrefix) && key[:len(upgradeKeyPrefix)] == upgradeKeyPrefix {
			keys = append(keys, key)
		}
	}
	return keys
}
