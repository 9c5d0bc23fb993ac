// media_category.go defines the MediaCategory enum of pin descriptors.

package types

import "fmt"

// MediaCategory is the kind of media a pin carries. It is fixed when the
// pin is created.
type MediaCategory int

const (
	MediaCategoryUnknown = MediaCategory(iota)
	MediaCategoryAudio
	MediaCategoryVideo
	MediaCategorySubtitle
	MediaCategoryClock
)

func MediaCategories() []MediaCategory {
	return []MediaCategory{
		MediaCategoryUnknown,
		MediaCategoryAudio,
		MediaCategoryVideo,
		MediaCategorySubtitle,
		MediaCategoryClock,
	}
}

func (c MediaCategory) String() string {
	switch c {
	case MediaCategoryUnknown:
		return "unknown"
	case MediaCategoryAudio:
		return "audio"
	case MediaCategoryVideo:
		return "video"
	case MediaCategorySubtitle:
		return "subtitle"
	case MediaCategoryClock:
		return "clock"
	default:
		return fmt.Sprintf("MediaCategory(%d)", int(c))
	}
}
