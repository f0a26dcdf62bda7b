package tree

// PathStack holds the directories currently open while walking a tree,
// indexed by nesting level. Index 0 is the project root and is never removed.
// Each directory also remembers the indentation column it was written at.
type PathStack struct {
	frames []frame
}

type frame struct {
	path   string
	column int
}

// rootColumn sits left of every line so the root is never closed by a dedent.
const rootColumn = -1

func NewPathStack(root string) *PathStack {
	return &PathStack{frames: []frame{{path: root, column: rootColumn}}}
}

func (s *PathStack) Len() int {
	return len(s.frames)
}

// Truncate keeps the first level entries, closing every deeper directory.
// It is a no-op when the stack is already that short.
func (s *PathStack) Truncate(level int) {
	if level < 1 {
		level = 1
	}
	if level < len(s.frames) {
		s.frames = s.frames[:level]
	}
}

// CloseAt closes every directory written at column or further right, so the
// deepest one left is the parent of a line indented to column.
func (s *PathStack) CloseAt(column int) {
	for len(s.frames) > 1 && s.frames[len(s.frames)-1].column >= column {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Parent returns the deepest open directory.
func (s *PathStack) Parent() string {
	return s.frames[len(s.frames)-1].path
}

// Column returns the indentation column of the deepest open directory.
func (s *PathStack) Column() int {
	return s.frames[len(s.frames)-1].column
}

func (s *PathStack) Push(path string, column int) {
	s.frames = append(s.frames, frame{path: path, column: column})
}

// Paths returns a copy of the open directories, root first.
func (s *PathStack) Paths() []string {
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.path
	}
	return out
}
