package engine

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
)

// ResultFolder returns <base>/<runName>/<start>_<end>/<data file name>. The window folder is
// omitted when neither bound is set and the data folder when dataPath is empty.
func ResultFolder(base, runName, dataPath string, start, end optional.Option[time.Time]) string {
	folder := filepath.Join(base, runName)

	if start.IsSome() || end.IsSome() {
		startStr := "all"
		endStr := "all"

		if start.IsSome() {
			startStr = start.Unwrap().Format("20060102")
		}

		if end.IsSome() {
			endStr = end.Unwrap().Format("20060102")
		}

		folder = filepath.Join(folder, startStr+"_"+endStr)
	}

	if dataPath == "" {
		return folder
	}

	return filepath.Join(folder, strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath)))
}
