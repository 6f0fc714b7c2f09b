package steampath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/andygrunwald/vdf"
)

// gameAppID is R.E.P.O.'s Steam application id, used to locate the Proton
// prefix that holds the save directory on Linux.
const gameAppID = "3241660"

// saveDirSuffix is where the game keeps its containers inside a Windows
// user profile.
var saveDirSuffix = filepath.Join("AppData", "LocalLow", "semiwork", "Repo", "saves")

// ErrNotFound reports that no Steam installation (or the requested artifact
// inside one) could be located.
var ErrNotFound = errors.New("steam installation not found")

// Resolve returns the Steam root directory. A non-empty override wins; an
// empty override probes the platform's default install locations.
func Resolve(override string) (string, error) {
	if override != "" {
		if info, err := os.Stat(override); err == nil && info.IsDir() {
			return override, nil
		}
		return "", fmt.Errorf("steam root %q: %w", override, ErrNotFound)
	}
	for _, candidate := range defaultRoots() {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}

func defaultRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files (x86)\Steam`,
			`C:\Program Files\Steam`,
		}
	case "darwin":
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		return []string{
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		}
	}
}

// SaveDir returns the game's save directory for a resolved Steam root. On
// Windows the game writes directly into the user profile; elsewhere it lives
// inside the game's Proton prefix under the Steam root.
func SaveDir(root string) (string, error) {
	var dir string
	if runtime.GOOS == "windows" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, saveDirSuffix)
	} else {
		dir = filepath.Join(root, "steamapps", "compatdata", gameAppID,
			"pfx", "drive_c", "users", "steamuser", saveDirSuffix)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("save directory %q: %w", dir, ErrNotFound)
	}
	return dir, nil
}

// PersonaNames parses Steam's loginusers.vdf under root and returns the
// SteamID64 to persona name mapping for accounts that have logged in on this
// machine. Identities absent from the map simply have no local name.
func PersonaNames(root string) (map[string]string, error) {
	path := filepath.Join(root, "config", "loginusers.vdf")
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open loginusers: %w", err)
	}
	defer file.Close()

	parsed, err := vdf.NewParser(file).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse loginusers: %w", err)
	}

	users, ok := parsed["users"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("loginusers: missing users block")
	}

	names := make(map[string]string, len(users))
	for id, raw := range users {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := fields["PersonaName"].(string); ok {
			names[id] = name
		}
	}
	return names, nil
}
