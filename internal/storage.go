package internal

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

var storePath = filepath.Join(os.Getenv("HOME"), ".flexctl", "credentials.json")

type storedProfile struct {
	APIKey    string `json:"api_key"` // base64 of AES-GCM ciphertext
	CreatedAt string `json:"created_at"`
}

func loadStore() (map[string]storedProfile, error) {
	data := make(map[string]storedProfile)
	b, err := os.ReadFile(storePath)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("credential store is corrupt: %w", err)
	}
	return data, nil
}

func writeStore(data map[string]storedProfile) error {
	if err := os.MkdirAll(filepath.Dir(storePath), 0700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(storePath, b, 0600)
}

// SaveAPIKey encrypts and stores a CloudHealth API key under a profile name.
func SaveAPIKey(profile, apiKey, secret string) error {
	data, err := loadStore()
	if err != nil {
		return err
	}

	encrypted, err := Encrypt([]byte(apiKey), []byte(secret))
	if err != nil {
		return err
	}
	data[profile] = storedProfile{
		APIKey:    base64.StdEncoding.EncodeToString(encrypted),
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	return writeStore(data)
}

// LoadAPIKey decrypts the stored API key for a profile.
func LoadAPIKey(profile, secret string) (string, error) {
	data, err := loadStore()
	if err != nil {
		return "", err
	}
	entry, ok := data[profile]
	if !ok {
		return "", fmt.Errorf("profile '%s' not found", profile)
	}

	encrypted, err := base64.StdEncoding.DecodeString(entry.APIKey)
	if err != nil {
		return "", fmt.Errorf("profile '%s' is corrupt: %w", profile, err)
	}
	apiKey, err := Decrypt(encrypted, []byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt profile '%s' (wrong secret?): %w", profile, err)
	}
	return string(apiKey), nil
}

// RemoveProfile deletes a stored profile.
func RemoveProfile(profile string) error {
	data, err := loadStore()
	if err != nil {
		return err
	}
	if _, ok := data[profile]; !ok {
		return fmt.Errorf("profile '%s' not found", profile)
	}
	delete(data, profile)

	if len(data) == 0 {
		return os.Remove(storePath)
	}
	return writeStore(data)
}

// ClearAllProfiles removes the whole credential store.
func ClearAllProfiles() error {
	return os.Remove(storePath)
}

// ProfileInfo is a stored profile without its secret material.
type ProfileInfo struct {
	Name      string
	CreatedAt time.Time
}

// ListProfiles returns stored profile names sorted alphabetically.
func ListProfiles() ([]ProfileInfo, error) {
	data, err := loadStore()
	if err != nil {
		return nil, err
	}

	profiles := make([]ProfileInfo, 0, len(data))
	for name, entry := range data {
		created, _ := time.Parse(time.RFC3339, entry.CreatedAt)
		profiles = append(profiles, ProfileInfo{Name: name, CreatedAt: created})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}
