package parsing

import (
	"errors"
	"path/filepath"
	"time"

	"menuparser/internal/menu"
)

const (
	CollectionText   = "menus_langchain"
	CollectionVision = "menus_langchain_vision"

	debugPrefixText   = "debug_langchain"
	debugPrefixVision = "debug_langchain_vision"

	SourceLangchain = "langchain"
)

var ErrRecordNotFound = errors.New("menu record not found")

// Record is what gets stored per parsed menu. Menu always holds exactly one
// document.
type Record struct {
	Menu             []*menu.Document `json:"menu"`
	SourceFilePath   *string          `json:"sourceFilePath"`
	Source           string           `json:"source"`
	CreatedAt        time.Time        `json:"createdAt"`
	DebugRawTextPath string           `json:"debugRawTextPath"`
}

// KnownCollection reports whether name is a collection this service writes.
func KnownCollection(name string) bool {
	return name == CollectionText || name == CollectionVision
}

// StorageID strips the file extension from a document id, so "abc.png"
// is stored as "abc".
func StorageID(docID string) string {
	id := docID[:len(docID)-len(filepath.Ext(docID))]
	if id == "" {
		return docID
	}
	return id
}

func debugPath(prefix, id string) string {
	return prefix + "/" + id + ".raw.txt"
}
