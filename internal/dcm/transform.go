package dcm

import (
	"fmt"

	"github.com/ignite/floody/internal/floody"
)

// publisherTagFromDynamic collapses the click/view-through flags into the
// sheet-facing conversion type.
func publisherTagFromDynamic(t PublisherDynamicTag) floody.PublisherTag {
	conversionType := floody.ConversionBoth
	switch {
	case t.ClickThrough && !t.ViewThrough:
		conversionType = floody.ConversionClickThrough
	case t.ViewThrough && !t.ClickThrough:
		conversionType = floody.ConversionViewThrough
	}
	return floody.PublisherTag{
		SiteID:         t.SiteID,
		ConversionType: conversionType,
		Tag:            t.DynamicTag.Tag,
	}
}

// publisherTagToDynamic expands a sheet publisher tag back into the
// platform's flag form.
func publisherTagToDynamic(t floody.PublisherTag) PublisherDynamicTag {
	return PublisherDynamicTag{
		SiteID:       t.SiteID,
		ClickThrough: t.ConversionType == floody.ConversionClickThrough || t.ConversionType == floody.ConversionBoth,
		ViewThrough:  t.ConversionType == floody.ConversionViewThrough || t.ConversionType == floody.ConversionBoth,
		DynamicTag:   DynamicTag{Tag: t.Tag},
	}
}

// tagStreams flattens the embedded tag snippets of all activities in stream
// order, the input of the registry dedup.
func tagStreams(activities []FloodlightActivity) ([]floody.DefaultTag, []floody.PublisherTag) {
	var defaults []floody.DefaultTag
	var publishers []floody.PublisherTag
	for _, a := range activities {
		for _, t := range a.DefaultTags {
			defaults = append(defaults, floody.DefaultTag{Name: t.Name, Tag: t.Tag})
		}
		for _, t := range a.PublisherTags {
			publishers = append(publishers, publisherTagFromDynamic(t))
		}
	}
	return defaults, publishers
}

// activityToFloody converts one platform activity to its sheet form,
// replacing embedded tag snippets with registry ids.
func activityToFloody(a FloodlightActivity, defaults *floody.DefaultTagRegistry, publishers *floody.PublisherTagRegistry) (floody.Activity, error) {
	countingMethod, err := floody.CountingMethodFromPlatform(a.CountingMethod)
	if err != nil {
		return floody.Activity{}, err
	}

	var defaultTagIDs []int64
	for _, t := range a.DefaultTags {
		id, ok := defaults.IDFor(floody.DefaultTag{Name: t.Name, Tag: t.Tag})
		if !ok {
			return floody.Activity{}, fmt.Errorf("default tag %q missing from registry", t.Name)
		}
		defaultTagIDs = append(defaultTagIDs, id)
	}

	var publisherTagIDs []int64
	for _, t := range a.PublisherTags {
		id, ok := publishers.IDFor(publisherTagFromDynamic(t))
		if !ok {
			return floody.Activity{}, fmt.Errorf("publisher tag for site %d missing from registry", t.SiteID)
		}
		publisherTagIDs = append(publisherTagIDs, id)
	}

	return floody.Activity{
		ID:              a.ID,
		AccountID:       a.AccountID,
		ConfigID:        a.FloodlightConfigurationID,
		GroupName:       a.FloodlightActivityGroupName,
		GroupTagString:  a.FloodlightActivityGroupTagString,
		TagString:       a.TagString,
		Name:            a.Name,
		CountingMethod:  countingMethod,
		ExpectedURL:     a.ExpectedURL,
		CacheBusting:    floody.CacheBustingFromPlatform(a.CacheBustingType),
		TagFormat:       floody.TagFormat(a.TagFormat),
		TagType:         floody.TagType(a.FloodlightTagType),
		Status:          floody.ActivityStatus(a.Status),
		CustomVariables: a.UserDefinedVariableTypes,
		DefaultTagIDs:   defaultTagIDs,
		PublisherTagIDs: publisherTagIDs,
		ToBeUpdated:     false,
	}, nil
}

// floodyToActivity builds the platform write payload for a validated sheet
// activity, re-expanding referenced tag ids into full tag objects.
func floodyToActivity(a floody.Activity, group floody.Group, defaultTags map[int64]floody.DefaultTag, publisherTags map[int64]floody.PublisherTag) (FloodlightActivity, error) {
	countingMethod, err := floody.PlatformCountingMethod(a.CountingMethod)
	if err != nil {
		return FloodlightActivity{}, err
	}

	out := FloodlightActivity{
		ID:                        a.ID,
		FloodlightConfigurationID: a.ConfigID,
		FloodlightActivityGroupID: group.ID,
		TagString:                 a.TagString,
		Name:                      a.Name,
		CountingMethod:            countingMethod,
		ExpectedURL:               a.ExpectedURL,
		CacheBustingType:          floody.PlatformCacheBusting(a.CacheBusting),
		TagFormat:                 string(a.TagFormat),
		FloodlightTagType:         string(a.TagType),
		Status:                    string(a.Status),
		UserDefinedVariableTypes:  a.CustomVariables,
	}

	for _, id := range a.DefaultTagIDs {
		t := defaultTags[id]
		out.DefaultTags = append(out.DefaultTags, DynamicTag{Name: t.Name, Tag: t.Tag})
	}
	for _, id := range a.PublisherTagIDs {
		out.PublisherTags = append(out.PublisherTags, publisherTagToDynamic(publisherTags[id]))
	}
	return out, nil
}

// groupFromPlatform converts a platform group to the bundle form.
func groupFromPlatform(g FloodlightActivityGroup) floody.Group {
	return floody.Group{
		ID:        g.ID,
		Name:      g.Name,
		TagString: g.TagString,
		Type:      floody.GroupType(g.Type),
		ConfigID:  g.FloodlightConfigurationID,
	}
}
