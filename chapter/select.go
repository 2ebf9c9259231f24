package chapter

import "github.com/mheijink/zetwerk/model"

// Selection identifies the body story chosen for a chapter range.
type Selection struct {
	StoryIndex int
	WordCount  int
}

// SelectBodyStory picks the story with the most words among paragraphs whose
// start page falls inside the range. Ties keep the first story encountered.
// The read is pure; callers recompute after edits since page offsets shift.
func SelectBodyStory(doc *model.Document, r Range) (Selection, error) {
	doc.Reflow()

	sel := Selection{StoryIndex: -1}
	for i, story := range doc.Stories {
		count := story.WordCountInRange(r.Start, r.End)
		if count > sel.WordCount {
			sel = Selection{StoryIndex: i, WordCount: count}
		}
	}
	if sel.StoryIndex < 0 {
		return Selection{}, ErrNoBodyStory
	}
	return sel, nil
}
