// Package collection implements the subset of the Collection+JSON hypermedia
// format returned by the TeamSnap v3 API.
//
// Every API response is an envelope of the form:
//
//	{
//	  "collection": {
//	    "version": "3.867.0",
//	    "href": "https://api.teamsnap.com/v3/teams/search",
//	    "items": [{"href": "...", "data": [{"name": "id", "value": 1}], "links": []}],
//	    "links": [{"rel": "teams", "href": "...", "deprecated": false}],
//	    "queries": [],
//	    "commands": []
//	  }
//	}
//
// Missing pieces of the envelope are treated as empty rather than as errors.
package collection

// Response is a decoded Collection+JSON document.
type Response struct {
	Collection *Collection `json:"collection,omitempty"`
}

// Collection is the body of a Collection+JSON document.
type Collection struct {
	Version  string    `json:"version,omitempty"`
	Href     string    `json:"href,omitempty"`
	Items    []Item    `json:"items,omitempty"`
	Links    []Link    `json:"links,omitempty"`
	Queries  []Query   `json:"queries,omitempty"`
	Commands []Command `json:"commands,omitempty"`
	Template *Template `json:"template,omitempty"`
	Error    *Error    `json:"error,omitempty"`
}

// Item is a single resource inside a collection.
type Item struct {
	Href  string  `json:"href,omitempty"`
	Data  []Field `json:"data,omitempty"`
	Links []Link  `json:"links,omitempty"`
}

// Field is a name/value pair of an item, query or template.
type Field struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Prompt string `json:"prompt,omitempty"`
}

// Link is a named relation to another resource.
type Link struct {
	Rel        string `json:"rel"`
	Href       string `json:"href"`
	Prompt     string `json:"prompt,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// Query is a parameterized search advertised by a collection.
type Query struct {
	Rel    string  `json:"rel"`
	Href   string  `json:"href"`
	Prompt string  `json:"prompt,omitempty"`
	Data   []Field `json:"data,omitempty"`
}

// Command is an action advertised by a collection.
type Command struct {
	Rel    string  `json:"rel"`
	Href   string  `json:"href"`
	Method string  `json:"method,omitempty"`
	Prompt string  `json:"prompt,omitempty"`
	Data   []Field `json:"data,omitempty"`
}

// Template describes the fields accepted when writing to a collection.
type Template struct {
	Data []Field `json:"data,omitempty"`
}

// Error is the error object some responses carry instead of items.
type Error struct {
	Title   string `json:"title,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Values returns the item's fields flattened into Data.
func (i Item) Values() Data {
	return Flatten(i.Data)
}

// Link returns the href of the item's link with the given relation.
func (i Item) Link(rel string) (string, bool) {
	for _, l := range i.Links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}

func (r *Response) body() *Collection {
	if r == nil || r.Collection == nil {
		return &Collection{}
	}
	return r.Collection
}

// Version returns the API version advertised by the response.
func (r *Response) Version() string {
	return r.body().Version
}

// RawItems returns the items of the response without flattening them.
func (r *Response) RawItems() []Item {
	return r.body().Items
}

// Items returns every item of the response flattened into Data.
func (r *Response) Items() []Data {
	items := r.body().Items
	out := make([]Data, 0, len(items))
	for _, item := range items {
		out = append(out, item.Values())
	}
	return out
}

// First returns the first item of the response, if any.
func (r *Response) First() (Data, bool) {
	items := r.body().Items
	if len(items) == 0 {
		return nil, false
	}
	return items[0].Values(), true
}

// Links returns the relations advertised by the response.
func (r *Response) Links() []Link {
	return r.body().Links
}

// Queries returns the searches advertised by the response.
func (r *Response) Queries() []Query {
	return r.body().Queries
}

// Commands returns the actions advertised by the response.
func (r *Response) Commands() []Command {
	return r.body().Commands
}

// DeprecatedLinks returns the links flagged as deprecated, in response order.
func (r *Response) DeprecatedLinks() []Link {
	var out []Link
	for _, l := range r.body().Links {
		if l.Deprecated {
			out = append(out, l)
		}
	}
	return out
}
