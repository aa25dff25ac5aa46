/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

import "slices"

// Roster is the ordered list of player names, in insertion order.
type Roster struct {
	names []string
}

func (r *Roster) Len() int {
	return len(r.names)
}

// Names returns a copy of the roster.
func (r *Roster) Names() []string {
	return slices.Clone(r.names)
}

func (r *Roster) Contains(name string) bool {
	return slices.Contains(r.names, name)
}

func (r *Roster) Index(name string) int {
	return slices.Index(r.names, name)
}

func (r *Roster) At(i int) (string, bool) {
	if i < 0 || i >= len(r.names) {
		return "", false
	}

	return r.names[i], true
}

func (r *Roster) Append(name string) {
	r.names = append(r.names, name)
}

// RemoveAt deletes the name at i and returns it.
func (r *Roster) RemoveAt(i int) (string, bool) {
	name, ok := r.At(i)
	if !ok {
		return "", false
	}

	r.names = slices.Delete(r.names, i, i+1)

	return name, true
}

// RenameAt replaces the name at i and returns the previous one.
func (r *Roster) RenameAt(i int, name string) (string, bool) {
	old, ok := r.At(i)
	if !ok {
		return "", false
	}

	r.names[i] = name

	return old, true
}
