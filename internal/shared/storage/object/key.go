package object

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateKey builds a unique object key for a new upload. The shape is a
// documented contract other tooling (lifecycle rules, backups) depends on:
//
//	athletes/{athleteId}/{year}/{month}/{uuid}[.ext]
//	general/{year}/{month}/{uuid}[.ext]
//
// Uniqueness rests on UUID entropy; keys are never reused, even after delete.
func GenerateKey(originalFilename string, athleteID int64) string {
	yearMonth := time.Now().UTC().Format("2006/01")

	var key string
	if athleteID > 0 {
		key = fmt.Sprintf("athletes/%d/%s/%s", athleteID, yearMonth, uuid.NewString())
	} else {
		key = fmt.Sprintf("general/%s/%s", yearMonth, uuid.NewString())
	}

	if ext := fileExt(originalFilename); ext != "" {
		key += "." + ext
	}
	return key
}

func fileExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
