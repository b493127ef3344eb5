// cmd/studioctl/paging.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/utils"
)

type pageFlags struct {
	page  int
	limit int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&p.limit, "limit", utils.DefaultPageLimit, "Rows per page")
}

func (p *pageFlags) params() utils.PaginationParams {
	params := utils.DefaultPaginationParams()
	if p.page > 0 {
		params.Page = p.page
	}
	if p.limit > 0 {
		params.Limit = p.limit
	}
	if params.Limit > utils.MaxPageLimit {
		params.Limit = utils.MaxPageLimit
	}
	return params
}

func printPageFooter(out io.Writer, params utils.PaginationParams, shown int, total int64) {
	fmt.Fprintf(out, "Showing %d of %d (page %d)\n", shown, total, params.Page)
}
