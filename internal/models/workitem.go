package models

// WorkItem is a read-only projection of a remote GUS work record. Name,
// Subject, and Status default to empty strings when the remote field is
// absent; every other optional field stays zero-valued.
type WorkItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Subject        string `json:"subject"`
	Status         string `json:"status"`
	RecordTypeName string `json:"record_type_name,omitempty"`
	Description    string `json:"description,omitempty"`
	Severity       string `json:"severity,omitempty"`
	AssigneeID     string `json:"assignee_id,omitempty"`
	ProductTagName string `json:"product_tag_name,omitempty"`
	EpicName       string `json:"epic_name,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	ModifiedAt     string `json:"modified_at,omitempty"`
}

// Epic groups multiple work items under a single name.
type Epic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatedRecord is the two-field result of a record creation: the remote id
// and a browse URL on the instance. The creation endpoint does not echo the
// record name; callers fetch it with a follow-up query when needed.
type CreatedRecord struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
