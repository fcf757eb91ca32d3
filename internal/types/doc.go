// Package types holds the value types shared by the matcher and its
// collaborators: dictionary languages, an entity's short forms, search
// strings and the match records produced for highlighting.
//
// All types are plain values without back-references, so they can be copied
// and shared across goroutines.
package types
