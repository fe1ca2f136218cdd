package sqlstore

import "github.com/ncobase/scanpage/paging"

const selectProjects = `SELECT name, mtime FROM projects`

// query is one keyset range scan; args are bound in order, followed by
// the LIMIT.
type query struct {
	sql  string
	args []any
}

func byName(order paging.Order) query {
	if order == paging.Descending {
		return query{sql: selectProjects + ` ORDER BY name DESC LIMIT ?`}
	}
	return query{sql: selectProjects + ` ORDER BY name ASC LIMIT ?`}
}

func byNameAfter(order paging.Order, name string) query {
	if order == paging.Descending {
		return query{sql: selectProjects + ` WHERE name < ? ORDER BY name DESC LIMIT ?`, args: []any{name}}
	}
	return query{sql: selectProjects + ` WHERE name > ? ORDER BY name ASC LIMIT ?`, args: []any{name}}
}

func byMtime(order paging.Order) query {
	if order == paging.Descending {
		return query{sql: selectProjects + ` ORDER BY mtime DESC, name ASC LIMIT ?`}
	}
	return query{sql: selectProjects + ` ORDER BY mtime ASC, name ASC LIMIT ?`}
}

func byMtimeAfter(order paging.Order, mtime int64, name string) query {
	args := []any{mtime, mtime, name}
	if order == paging.Descending {
		return query{
			sql:  selectProjects + ` WHERE mtime < ? OR (mtime = ? AND name > ?) ORDER BY mtime DESC, name ASC LIMIT ?`,
			args: args,
		}
	}
	return query{
		sql:  selectProjects + ` WHERE mtime > ? OR (mtime = ? AND name > ?) ORDER BY mtime ASC, name ASC LIMIT ?`,
		args: args,
	}
}
