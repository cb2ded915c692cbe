package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/floody/internal/floody"
)

// cell returns the trimmed value of column i, empty when the row is ragged.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt64(row []string, i int) (int64, error) {
	v := cell(row, i)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", i, err)
	}
	return n, nil
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitIDList(value string) ([]int64, error) {
	var out []int64
	for _, part := range splitCommaList(value) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tag id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func joinInt64s(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func parseCountingMethod(value string) (floody.CountingMethod, error) {
	switch m := floody.CountingMethod(strings.ToUpper(value)); m {
	case floody.CounterStandard, floody.CounterUnique, floody.CounterSessions,
		floody.SalesItemsSold, floody.SalesTransactions:
		return m, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "counting method", Value: value}
}

// Blank enum cells fall back to the historical sheet defaults.

func parseCacheBusting(value string) (floody.CacheBustingType, error) {
	if value == "" {
		return floody.CacheBustingNone, nil
	}
	switch t := floody.CacheBustingType(strings.ToUpper(value)); t {
	case floody.CacheBustingNone, floody.CacheBustingActiveServerPage, floody.CacheBustingColdFusion,
		floody.CacheBustingJavascript, floody.CacheBustingJSP, floody.CacheBustingPHP:
		return t, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "cache busting", Value: value}
}

func parseTagFormat(value string) (floody.TagFormat, error) {
	if value == "" {
		return floody.TagFormatHTML, nil
	}
	switch f := floody.TagFormat(strings.ToUpper(value)); f {
	case floody.TagFormatHTML, floody.TagFormatXHTML:
		return f, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "tag format", Value: value}
}

func parseTagType(value string) (floody.TagType, error) {
	if value == "" {
		return floody.TagTypeGlobalSiteTag, nil
	}
	switch t := floody.TagType(strings.ToUpper(value)); t {
	case floody.TagTypeImage, floody.TagTypeIframe, floody.TagTypeGlobalSiteTag:
		return t, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "tag type", Value: value}
}

// parseStatus keeps backward compatibility with old sheets that used a
// bare "Y" to mean archived.
func parseStatus(value string) (floody.ActivityStatus, error) {
	switch strings.ToUpper(value) {
	case "":
		return floody.StatusActive, nil
	case "Y":
		return floody.StatusArchivedAndDisabled, nil
	case string(floody.StatusActive):
		return floody.StatusActive, nil
	case string(floody.StatusArchivedAndDisabled):
		return floody.StatusArchivedAndDisabled, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "activity status", Value: value}
}

func parseConversionType(value string) (floody.ConversionType, error) {
	switch t := floody.ConversionType(strings.ToUpper(value)); t {
	case floody.ConversionClickThrough, floody.ConversionViewThrough, floody.ConversionBoth:
		return t, nil
	}
	return "", &floody.UnsupportedVariantError{Kind: "conversion type", Value: value}
}

func flag(set bool) string {
	if set {
		return "Y"
	}
	return ""
}

// activityFromRow decodes one Activities row. Rows too short to carry the
// core identity columns are rejected.
func activityFromRow(row []string, defaultLifespanDays int) (floody.Activity, error) {
	if len(row) < colCacheBusting {
		return floody.Activity{}, fmt.Errorf("row has %d columns, need at least %d", len(row), colCacheBusting)
	}

	accountID, err := cellInt64(row, colAccountID)
	if err != nil {
		return floody.Activity{}, err
	}
	configID, err := cellInt64(row, colConfigID)
	if err != nil {
		return floody.Activity{}, err
	}
	activityID, err := cellInt64(row, colActivityID)
	if err != nil {
		return floody.Activity{}, err
	}

	countingMethod, err := parseCountingMethod(cell(row, colCountingMethod))
	if err != nil {
		return floody.Activity{}, err
	}
	cacheBusting, err := parseCacheBusting(cell(row, colCacheBusting))
	if err != nil {
		return floody.Activity{}, err
	}
	tagFormat, err := parseTagFormat(cell(row, colTagFormat))
	if err != nil {
		return floody.Activity{}, err
	}
	tagType, err := parseTagType(cell(row, colTagType))
	if err != nil {
		return floody.Activity{}, err
	}
	status, err := parseStatus(cell(row, colStatus))
	if err != nil {
		return floody.Activity{}, err
	}
	defaultTagIDs, err := splitIDList(cell(row, colDefaultTags))
	if err != nil {
		return floody.Activity{}, err
	}
	publisherTagIDs, err := splitIDList(cell(row, colPublisherTags))
	if err != nil {
		return floody.Activity{}, err
	}

	lifespan := defaultLifespanDays
	if v := cell(row, colAudienceLifespan); v != "" {
		lifespan, err = strconv.Atoi(v)
		if err != nil {
			return floody.Activity{}, fmt.Errorf("audience lifespan %q: %w", v, err)
		}
	}

	var customVariables []string
	for _, v := range splitCommaList(cell(row, colCustomVariables)) {
		customVariables = append(customVariables, strings.ToUpper(v))
	}

	return floody.Activity{
		AccountID:            accountID,
		ConfigID:             configID,
		ID:                   activityID,
		ToBeUpdated:          strings.EqualFold(cell(row, colUpdateFlag), "Y"),
		Name:                 cell(row, colActivityName),
		TagString:            cell(row, colActivityTagString),
		GroupName:            cell(row, colGroupName),
		GroupTagString:       cell(row, colGroupTagString),
		CountingMethod:       countingMethod,
		ExpectedURL:          cell(row, colExpectedURL),
		CacheBusting:         cacheBusting,
		CustomVariables:      customVariables,
		DefaultTagIDs:        defaultTagIDs,
		PublisherTagIDs:      publisherTagIDs,
		TagFormat:            tagFormat,
		TagType:              tagType,
		Status:               status,
		AutoCreateAudience:   cell(row, colCreateAudience) == "Y",
		AudienceLifespanDays: lifespan,
	}, nil
}

// activityToRow encodes one activity into the Activities column layout. The
// create-audience and lifespan cells are left blank so a completed row does
// not re-trigger audience creation on the next export.
func activityToRow(a floody.Activity) []string {
	row := make([]string, len(activitySheetHeaders))
	row[colAccountID] = formatInt64(a.AccountID)
	row[colConfigID] = formatInt64(a.ConfigID)
	row[colActivityID] = formatInt64(a.ID)
	row[colUpdateFlag] = flag(a.ToBeUpdated)
	row[colActivityName] = a.Name
	row[colActivityTagString] = a.TagString
	row[colGroupName] = a.GroupName
	row[colGroupTagString] = a.GroupTagString
	row[colCountingMethod] = string(a.CountingMethod)
	row[colExpectedURL] = a.ExpectedURL
	row[colCacheBusting] = string(a.CacheBusting)
	row[colCustomVariables] = strings.Join(a.CustomVariables, ",")
	row[colDefaultTags] = joinInt64s(a.DefaultTagIDs)
	row[colPublisherTags] = joinInt64s(a.PublisherTagIDs)
	row[colTagFormat] = string(a.TagFormat)
	row[colTagType] = string(a.TagType)
	row[colStatus] = string(a.Status)
	row[colRemarks] = a.Remarks
	return row
}

// formatInt64 renders ids, leaving zero (absent) cells blank.
func formatInt64(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func defaultTagFromRow(row []string) (floody.SheetDefaultTag, error) {
	if len(row) < 3 {
		return floody.SheetDefaultTag{}, fmt.Errorf("row has %d columns, need 3", len(row))
	}
	id, err := cellInt64(row, 0)
	if err != nil {
		return floody.SheetDefaultTag{}, err
	}
	return floody.SheetDefaultTag{ID: id, Name: cell(row, 1), Tag: row[2]}, nil
}

func defaultTagToRow(t floody.SheetDefaultTag) []string {
	return []string{strconv.FormatInt(t.ID, 10), t.Name, t.Tag}
}

func publisherTagFromRow(row []string) (floody.SheetPublisherTag, error) {
	if len(row) < 4 {
		return floody.SheetPublisherTag{}, fmt.Errorf("row has %d columns, need 4", len(row))
	}
	id, err := cellInt64(row, 0)
	if err != nil {
		return floody.SheetPublisherTag{}, err
	}
	siteID, err := cellInt64(row, 1)
	if err != nil {
		return floody.SheetPublisherTag{}, err
	}
	conversionType, err := parseConversionType(cell(row, 2))
	if err != nil {
		return floody.SheetPublisherTag{}, err
	}
	return floody.SheetPublisherTag{
		ID:             id,
		SiteID:         siteID,
		ConversionType: conversionType,
		Tag:            row[3],
	}, nil
}

func publisherTagToRow(t floody.SheetPublisherTag) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		strconv.FormatInt(t.SiteID, 10),
		string(t.ConversionType),
		t.Tag,
	}
}

func customVariableFromRow(row []string) (floody.CustomVariable, error) {
	if len(row) < 3 {
		return floody.CustomVariable{}, fmt.Errorf("row has %d columns, need 3", len(row))
	}
	return floody.CustomVariable{
		Number: strings.ToUpper(cell(row, 0)),
		Name:   cell(row, 1),
		Type:   cell(row, 2),
	}, nil
}

func customVariableToRow(v floody.CustomVariable) []string {
	return []string{v.Number, v.Name, v.Type}
}

func groupFromRow(row []string, configID int64) (floody.Group, error) {
	if len(row) < 3 {
		return floody.Group{}, fmt.Errorf("row has %d columns, need 3", len(row))
	}
	groupType := floody.GroupType(strings.ToUpper(cell(row, 2)))
	if groupType != floody.GroupTypeCounter && groupType != floody.GroupTypeSale {
		return floody.Group{}, &floody.UnsupportedVariantError{Kind: "group type", Value: cell(row, 2)}
	}
	return floody.Group{
		TagString: cell(row, 0),
		Name:      cell(row, 1),
		Type:      groupType,
		ConfigID:  configID,
	}, nil
}

func groupToRow(g floody.Group) []string {
	return []string{g.TagString, g.Name, string(g.Type)}
}
