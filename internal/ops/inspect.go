package ops

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"sort"
)

type ArchiveSummary struct {
	Files      []string        `json:"files"`
	TotalBytes int64           `json:"totalBytes"`
	Manifest   *BackupManifest `json:"manifest,omitempty"`
}

// DescribeArchive lists a backup's data files without extracting it.
// The manifest entry is decoded instead of listed. Entries with hostile
// paths fail the whole inspection, same as restore.
func DescribeArchive(archivePath string) (ArchiveSummary, error) {
	var sum ArchiveSummary

	f, err := os.Open(archivePath)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return sum, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ArchiveSummary{}, err
		}
		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return ArchiveSummary{}, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if rel == manifestName {
			var m BackupManifest
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return ArchiveSummary{}, err
			}
			sum.Manifest = &m
			continue
		}
		sum.Files = append(sum.Files, rel)
		sum.TotalBytes += hdr.Size
	}
	sort.Strings(sum.Files)
	return sum, nil
}
