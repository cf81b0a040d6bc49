// Package mssql adapts paging-go to Microsoft SQL Server.
//
// It renders page and count queries through the SQLBoiler query builder with
// a SQL Server dialect, resolves the ordering column from INFORMATION_SCHEMA,
// and scans arbitrary tables into paging.Row values. Connections come from a
// Config passed at construction, never from the environment.
//
// Example usage:
//
//	db, err := mssql.Open(ctx, cfg.WithDatabase("UDP"))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	table, _ := paging.NewTableRef("UDP", "dbo", "orders")
//	orderColumn, err := mssql.NewResolver(db).ResolveOrderColumn(ctx, table)
//	fetcher := mssql.NewRowFetcher(db, table)
//	result, err := offset.New[paging.Row](fetcher, table).FetchAll(ctx, orderColumn, nil)
package mssql
