package models

type Column struct {
	ID     ColumnID `json:"id"`
	Title  string   `json:"title"`
	Status ColumnID `json:"status"`
}

// DefaultColumns is the column set a board shows before any column was saved.
func DefaultColumns() []Column {
	return []Column{
		{ID: "todo", Title: "To Do", Status: "todo"},
		{ID: "in-progress", Title: "In Progress", Status: "in-progress"},
		{ID: "done", Title: "Done", Status: "done"},
	}
}
