package jira

// searchPageSize is the number of issues requested per search page.
const searchPageSize = 200

// SearchIssues returns a lazy iterator over all issues matching the JQL
// query. Nothing is fetched until the first call to Next. Restarting means
// issuing SearchIssues again from offset zero.
func (c *Client) SearchIssues(jql, fields string) *IssueIter {
	return &IssueIter{
		client: c,
		jql:    jql,
		fields: fields,
		total:  -1,
	}
}

// IssueIter walks paginated search results in server order, one record at a
// time, in the manner of bufio.Scanner:
//
//	iter := client.SearchIssues(jql, "*all")
//	for iter.Next() {
//		issue := iter.Issue()
//		...
//	}
//	if err := iter.Err(); err != nil { ... }
type IssueIter struct {
	client  *Client
	jql     string
	fields  string
	startAt int
	total   int
	page    []Record
	pos     int
	done    bool
	err     error
}

// Next advances to the next record, fetching the next page when the current
// one is exhausted. It returns false at the end of the results or on the
// first error; errors are not retried.
func (it *IssueIter) Next() bool {
	if it.err != nil || (it.done && it.pos >= len(it.page)) {
		return false
	}
	if it.pos >= len(it.page) {
		page, err := it.client.search(it.jql, it.fields, it.startAt, searchPageSize)
		if err != nil {
			it.err = err
			return false
		}
		it.total = page.Total
		if len(page.Issues) == 0 {
			it.done = true
			return false
		}
		it.page = page.Issues
		it.pos = 0
		it.startAt += len(page.Issues)
		// The server may cap maxResults below the requested page size, so a
		// short-but-nonempty page is only final when it is shorter than the
		// limit the server itself reported. That still skips the extra
		// empty-page request on a genuinely short last page.
		if page.MaxResults > 0 && len(page.Issues) < page.MaxResults {
			it.done = true
		}
	}
	it.pos++
	return true
}

// Record returns the raw record at the current position.
func (it *IssueIter) Record() Record { return it.page[it.pos-1] }

// Issue returns the wrapped issue at the current position.
func (it *IssueIter) Issue() Issue { return NewIssue(it.Record()) }

// Total returns the server-reported total number of matches, or -1 before
// the first page arrived.
func (it *IssueIter) Total() int { return it.total }

// Err returns the error that stopped the iteration, if any.
func (it *IssueIter) Err() error { return it.err }
