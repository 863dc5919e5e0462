package domain

import "encoding/json"

// EncodeRepos serializes a repo list to the JSON array stored both under the
// local repos key and in the remote sync document. An empty or nil list
// encodes as "[]" so a fresh document is always a valid array.
func EncodeRepos(repos []Repo) (string, error) {
	if repos == nil {
		repos = []Repo{}
	}
	data, err := json.Marshal(repos)
	if err != nil {
		return "", Errorf(ErrStoreError, "failed to encode repo list: %v", err)
	}
	return string(data), nil
}

// DecodeRepos parses the persisted JSON array. Corrupt or empty input fails
// open to an empty list; persisted state must never crash startup. Records
// missing an installStatus default to UNKNOWN for compatibility with lists
// written by older versions.
func DecodeRepos(data string) []Repo {
	if data == "" {
		return nil
	}
	var repos []Repo
	if err := json.Unmarshal([]byte(data), &repos); err != nil {
		return nil
	}
	for i := range repos {
		if !repos[i].InstallStatus.Valid() {
			repos[i].InstallStatus = StatusUnknown
		}
	}
	return repos
}
