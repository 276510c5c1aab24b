package feed

// Validation is the tagged result of a structural check: either valid, or
// invalid with the first reason found.
type Validation struct {
	Valid  bool
	Reason string
}

func valid() Validation {
	return Validation{Valid: true}
}

func invalid(reason string) Validation {
	return Validation{Valid: false, Reason: reason}
}

// ValidateFeed reports whether a parsed feed carries the minimum structure
// required to be usable: title, description, link and an items collection.
func ValidateFeed(f *NormalizedFeed) Validation {
	if f == nil {
		return invalid("feed is nil")
	}
	if f.Title == "" {
		return invalid("feed title is missing")
	}
	if f.Description == "" {
		return invalid("feed description is missing")
	}
	if f.Link == "" {
		return invalid("feed link is missing")
	}
	if f.Items == nil {
		return invalid("feed items are missing")
	}
	return valid()
}

// ValidateItem reports whether a single item carries the fields every
// article is required to have.
func ValidateItem(i *NormalizedItem) Validation {
	if i == nil {
		return invalid("item is nil")
	}
	if i.Title == "" {
		return invalid("item title is missing")
	}
	if i.Link == "" {
		return invalid("item link is missing")
	}
	if i.Description == "" {
		return invalid("item description is missing")
	}
	if i.PubDate == "" {
		return invalid("item publication date is missing")
	}
	return valid()
}
