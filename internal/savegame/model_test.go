package savegame

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"reposave/internal/container"
)

const (
	scoutID = Identity("76561198000000001")
	heavyID = Identity("76561198000000002")
)

const fixtureDoc = `{
  "teamName": {"value": "Crew"},
  "playerNames": {"value": {"76561198000000001": "Scout", "76561198000000002": "Heavy"}},
  "dictionaryOfDictionaries": {"value": {
    "runStats": {"level": 3, "currency": 150, "lives": 2, "chargingStationCharge": 40.5, "totalHaul": 1200},
    "playerHealth": {"76561198000000001": 80, "76561198000000002": 100},
    "playerUpgradeHealth": {"76561198000000001": 2},
    "playerUpgradeSpeed": {"76561198000000001": 1, "76561198000000002": 3},
    "futureStat": {"76561198000000001": 3}
  }},
  "futureField": 42
}`

func mustParse(t *testing.T, doc string) *Model {
	t.Helper()
	m, err := Parse(container.Document(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

func TestParseWorld(t *testing.T) {
	m := mustParse(t, fixtureDoc)

	want := WorldState{
		Level:                 3,
		Currency:              150,
		Lives:                 2,
		ChargingStationCharge: 40.5,
		TotalHaul:             1200,
		TeamName:              "Crew",
	}
	if m.World != want {
		t.Fatalf("world mismatch: got %+v, want %+v", m.World, want)
	}
	if len(m.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", m.Warnings)
	}
}

func TestParsePlayersInDocumentOrder(t *testing.T) {
	m := mustParse(t, fixtureDoc)

	if len(m.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(m.Players))
	}
	scout, heavy := m.Players[0], m.Players[1]
	if scout.Identity != scoutID || heavy.Identity != heavyID {
		t.Fatalf("player order mismatch: %s, %s", scout.Identity, heavy.Identity)
	}
	if scout.DisplayName != "Scout" || scout.Health != 80 {
		t.Fatalf("scout mismatch: %+v", scout)
	}
	if heavy.DisplayName != "Heavy" || heavy.Health != 100 {
		t.Fatalf("heavy mismatch: %+v", heavy)
	}

	// Upgrade maps keep first-observed document order.
	wantScout := []Upgrade{{Name: "Health", Level: 2}, {Name: "Speed", Level: 1}}
	if len(scout.Upgrades) != len(wantScout) {
		t.Fatalf("scout upgrades: %+v", scout.Upgrades)
	}
	for i, u := range wantScout {
		if scout.Upgrades[i] != u {
			t.Fatalf("scout upgrade %d: got %+v, want %+v", i, scout.Upgrades[i], u)
		}
	}
	if len(heavy.Upgrades) != 1 || heavy.Upgrades[0] != (Upgrade{Name: "Speed", Level: 3}) {
		t.Fatalf("heavy upgrades: %+v", heavy.Upgrades)
	}
}

func TestParseClampsNegativesWithWarnings(t *testing.T) {
	doc := `{
	  "playerNames": {"value": {"76561198000000001": "Scout"}},
	  "dictionaryOfDictionaries": {"value": {
	    "runStats": {"level": -4, "currency": 10, "lives": -1},
	    "playerHealth": {"76561198000000001": -30}
	  }}
	}`
	m := mustParse(t, doc)

	if m.World.Level != 0 || m.World.Lives != 0 {
		t.Fatalf("expected clamped world fields, got %+v", m.World)
	}
	if m.World.Currency != 10 {
		t.Fatalf("currency should be untouched, got %d", m.World.Currency)
	}
	if m.Players[0].Health != 0 {
		t.Fatalf("expected clamped health, got %d", m.Players[0].Health)
	}
	if len(m.Warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(m.Warnings), m.Warnings)
	}
	for _, w := range m.Warnings {
		if !strings.Contains(w, "clamped") {
			t.Fatalf("warning %q does not mention clamping", w)
		}
	}

	// Clamping is a display leniency: the document itself stays untouched.
	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(out, "dictionaryOfDictionaries.value.runStats.level").Int() != -4 {
		t.Fatal("serialize must not rewrite clamped fields")
	}
}

func TestRoundTripIsIdempotent(t *testing.T) {
	m := mustParse(t, fixtureDoc)
	first, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, []byte(fixtureDoc)) {
		t.Fatal("serialize without edits must return the original bytes")
	}

	m2, err := Parse(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m2.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(second, first) {
		t.Fatal("second round trip diverged")
	}
	if m2.World != m.World {
		t.Fatalf("world diverged: %+v vs %+v", m2.World, m.World)
	}
}

func TestUnknownKeysSurviveUnrelatedEdits(t *testing.T) {
	m := mustParse(t, fixtureDoc)
	if err := m.SetWorldField(FieldCurrency, 999); err != nil {
		t.Fatal(err)
	}
	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	if got := gjson.GetBytes(out, "futureField"); !got.Exists() || got.Int() != 42 {
		t.Fatalf("futureField lost or changed: %v", got)
	}
	future := gjson.GetBytes(out, "dictionaryOfDictionaries.value.futureStat")
	if future.Raw != `{"76561198000000001": 3}` {
		t.Fatalf("futureStat bytes changed: %s", future.Raw)
	}
	if gjson.GetBytes(out, "dictionaryOfDictionaries.value.runStats.currency").Int() != 999 {
		t.Fatal("edit did not land")
	}
}

func TestSettersRejectNegativeValues(t *testing.T) {
	m := mustParse(t, fixtureDoc)

	if err := m.SetPlayerHealth(scoutID, -1); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("health: got %v, want ErrInvalidValue", err)
	}
	if m.Player(scoutID).Health != 80 {
		t.Fatal("failed edit must leave health unchanged")
	}

	if err := m.SetWorldField(FieldLives, -5); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("lives: got %v, want ErrInvalidValue", err)
	}
	if err := m.SetWorldField(FieldLevel, 2.5); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("fractional level: got %v, want ErrInvalidValue", err)
	}
	if err := m.SetUpgradeLevel(scoutID, "Speed", -2); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("upgrade: got %v, want ErrInvalidValue", err)
	}
	if got, _ := m.Player(scoutID).UpgradeLevel("Speed"); got != 1 {
		t.Fatalf("failed edit must leave upgrade unchanged, got %d", got)
	}

	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte(fixtureDoc)) {
		t.Fatal("rejected edits must not touch the document")
	}
}

func TestSettersRejectUnknownPlayer(t *testing.T) {
	m := mustParse(t, fixtureDoc)
	ghost := Identity("76561198999999999")

	if err := m.SetPlayerHealth(ghost, 50); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("got %v, want ErrUnknownPlayer", err)
	}
	if err := m.SetUpgradeLevel(ghost, "Speed", 1); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("got %v, want ErrUnknownPlayer", err)
	}
	if err := m.RemovePlayer(ghost); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("got %v, want ErrUnknownPlayer", err)
	}
}

func TestSetUpgradeLevelCreatesMissingGroup(t *testing.T) {
	m := mustParse(t, fixtureDoc)

	// Strength has no playerUpgradeStrength group in the fixture.
	if err := m.SetUpgradeLevel(heavyID, "Strength", 4); err != nil {
		t.Fatal(err)
	}
	if got, ok := m.Player(heavyID).UpgradeLevel("Strength"); !ok || got != 4 {
		t.Fatalf("typed view: got %d (ok=%v), want 4", got, ok)
	}

	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	path := "dictionaryOfDictionaries.value.playerUpgradeStrength.76561198000000002"
	if gjson.GetBytes(out, path).Int() != 4 {
		t.Fatalf("document missing created upgrade: %s", out)
	}

	// Reparse sees the same state.
	m2, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := m2.Player(heavyID).UpgradeLevel("Strength"); !ok || got != 4 {
		t.Fatalf("reparse: got %d (ok=%v), want 4", got, ok)
	}
}

func TestSetTeamName(t *testing.T) {
	m := mustParse(t, fixtureDoc)
	if err := m.SetTeamName("Night Shift"); err != nil {
		t.Fatal(err)
	}
	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(out, "teamName.value").String() != "Night Shift" {
		t.Fatal("team name edit did not land")
	}
}

func TestRemovePlayer(t *testing.T) {
	m := mustParse(t, fixtureDoc)
	if err := m.RemovePlayer(scoutID); err != nil {
		t.Fatal(err)
	}

	if m.Player(scoutID) != nil {
		t.Fatal("player still present in typed view")
	}
	if len(m.Players) != 1 || m.Players[0].Identity != heavyID {
		t.Fatalf("unexpected players: %+v", m.Players)
	}

	out, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{
		"playerNames.value.76561198000000001",
		"dictionaryOfDictionaries.value.playerHealth.76561198000000001",
		"dictionaryOfDictionaries.value.playerUpgradeHealth.76561198000000001",
		"dictionaryOfDictionaries.value.playerUpgradeSpeed.76561198000000001",
	} {
		if gjson.GetBytes(out, path).Exists() {
			t.Fatalf("%s still present after removal", path)
		}
	}
	// Groups the model does not interpret keep their entries.
	if !gjson.GetBytes(out, "dictionaryOfDictionaries.value.futureStat.76561198000000001").Exists() {
		t.Fatal("uninterpreted subtree was modified")
	}
	if gjson.GetBytes(out, "playerNames.value.76561198000000002").String() != "Heavy" {
		t.Fatal("remaining player damaged")
	}
}

func TestParseRejectsInvalidDocument(t *testing.T) {
	if _, err := Parse(container.Document("{broken")); err == nil {
		t.Fatal("expected error for invalid document")
	}
}
