// Package roles loads the admin/tutor e-mail lists from the secondary
// workbook. Lists are re-read on every login; there is no session state.
package roles

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tne-registro/tne-backend/internal/storage"
)

// Role values returned to the frontend.
const (
	RoleAdmin = "admin"
	RoleTutor = "tutor"
)

// Lists holds the two authorization sets, keys lowercase and trimmed.
type Lists struct {
	Admins  map[string]bool
	Tutores map[string]bool
}

// RoleFor checks membership for an e-mail (any case, surrounding spaces
// ignored). Admin wins over tutor.
func (l Lists) RoleFor(email string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(email))
	if l.Admins[e] {
		return RoleAdmin, true
	}
	if l.Tutores[e] {
		return RoleTutor, true
	}
	return "", false
}

// Load fetches the role workbook from the blob store, falling back to a
// local copy when the download fails. A total failure yields empty lists,
// which denies every login; that is deliberate fail-closed behavior, so Load
// never returns an error.
func Load(ctx context.Context, store storage.Store, blobKey, localPath string) Lists {
	empty := Lists{Admins: map[string]bool{}, Tutores: map[string]bool{}}

	data, _, err := store.Download(ctx, blobKey)
	if err != nil {
		slog.Warn("role workbook download failed, trying local copy",
			"key", blobKey, "error", err)
		data, err = os.ReadFile(localPath)
		if err != nil {
			slog.Warn("local role workbook unavailable, denying all logins",
				"path", localPath, "error", err)
			return empty
		}
	}

	lists, err := parseWorkbook(data)
	if err != nil {
		slog.Warn("role workbook unreadable, denying all logins", "error", err)
		return empty
	}
	return lists
}

// parseWorkbook extracts the two e-mail lists. Sheet names are matched by
// case-insensitive substring ("Admins", "Tutores"); within a sheet, the
// first column whose header contains CORREO or EMAIL is used. When neither
// sheet matches, the first sheet is read as the tutor list.
func parseWorkbook(data []byte) (Lists, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Lists{}, fmt.Errorf("abriendo planilla de usuarios: %w", err)
	}
	defer f.Close()

	lists := Lists{
		Admins:  sheetEmails(f, findSheet(f, "admins")),
		Tutores: sheetEmails(f, findSheet(f, "tutores")),
	}
	if len(lists.Admins) == 0 && len(lists.Tutores) == 0 && len(f.GetSheetList()) > 0 {
		lists.Tutores = sheetEmails(f, f.GetSheetName(0))
	}
	return lists, nil
}

func findSheet(f *excelize.File, want string) string {
	for _, name := range f.GetSheetList() {
		if strings.Contains(strings.ToLower(name), want) {
			return name
		}
	}
	return ""
}

func sheetEmails(f *excelize.File, sheetName string) map[string]bool {
	emails := map[string]bool{}
	if sheetName == "" {
		return emails
	}
	rows, err := f.GetRows(sheetName)
	if err != nil || len(rows) == 0 {
		return emails
	}

	col := -1
	for i, h := range rows[0] {
		up := strings.ToUpper(h)
		if strings.Contains(up, "CORREO") || strings.Contains(up, "EMAIL") {
			col = i
			break
		}
	}
	if col < 0 {
		return emails
	}

	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		e := strings.ToLower(strings.TrimSpace(row[col]))
		if e == "" || e == "nan" {
			continue
		}
		emails[e] = true
	}
	return emails
}
