// Package all links every store backend so store.Open can reach them.
package all

import (
	_ "github.com/ncobase/scanpage/store/memory"     // memory
	_ "github.com/ncobase/scanpage/store/mongostore" // mongo
	_ "github.com/ncobase/scanpage/store/redisstore" // redis
	_ "github.com/ncobase/scanpage/store/sqlstore"   // sqlite, mysql, postgres
)
