// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

// State is the change state tag carried by every tree entity.
type State uint8

const (
	NoChange State = iota
	Created
	Changed
	Deleted
)

func (s State) String() string {
	switch s {
	case NoChange:
		return "NO_CHANGE"
	case Created:
		return "CREATED"
	case Changed:
		return "CHANGED"
	case Deleted:
		return "DELETED"
	}
	return "UNKNOWN"
}

// item holds the change state shared by interfaces, vifs and addresses.
type item struct {
	state State
}

// State returns the current change state.
func (i *item) State() State {
	return i.state
}

// IsMarked reports whether the entity carries the given state.
func (i *item) IsMarked(st State) bool {
	return i.state == st
}

// mark applies the promotion rules. Deleted is terminal until the entity
// is removed, Created absorbs Changed.
func (i *item) mark(st State) {
	if i.state == Deleted {
		return
	}
	switch st {
	case Created, Deleted:
		i.state = st
	case Changed:
		if i.state == Created {
			return
		}
		i.state = Changed
	}
}

// setState bypasses the promotion rules. Only used while building a
// replacement plan and during finalization.
func (i *item) setState(st State) {
	i.state = st
}
