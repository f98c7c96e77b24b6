package mao

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/listopts"
	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/nodekind"
)

// ListNodes runs one page of the §4.4 pagination protocol over a node
// table, optionally restricted to candidateIDs (nil means "no
// restriction"; a non-nil empty slice means "the empty result"). An
// empty returned token means there is no further page.
func (m *MAO) ListNodes(ctx context.Context, nk nodekind.NodeKind, opts listopts.Options, pageToken string, candidateIDs []int64) ([]*model.Node, string, error) {
	var cursor *listopts.Cursor
	if pageToken != "" {
		c, err := listopts.DecodeToken(pageToken, opts)
		if err != nil {
			return nil, "", err
		}
		cursor = &c
	}

	rs, err := m.Exec.ListNodeIDsUsingOptions(ctx, nk.TableName(), opts, cursor, candidateIDs)
	if err != nil {
		return nil, "", err
	}

	ids := make([]int64, len(rs.Rows))
	for i, row := range rs.Rows {
		ids[i] = asInt64(row[0])
	}

	limitK := opts.MaxResultSize
	if limitK > listopts.MaxPageSize {
		limitK = listopts.MaxPageSize
	}
	hasNext := len(ids) > limitK
	pageIDs := ids
	if hasNext {
		pageIDs = ids[:limitK]
	}
	if len(pageIDs) == 0 {
		return nil, "", nil
	}

	fetched, err := m.GetNodesByIDs(ctx, nk, pageIDs)
	if err != nil {
		return nil, "", err
	}
	nodes := reorderByIDs(fetched, pageIDs)

	if !hasNext {
		return nodes, "", nil
	}

	last := nodes[len(nodes)-1]
	fieldOffset := fieldOf(last, opts.OrderBy)
	cur := listopts.Cursor{FieldOffset: fieldOffset}

	if opts.OrderBy != listopts.ID {
		overflow, err := m.GetNodeByID(ctx, nk, ids[limitK])
		if err != nil {
			return nil, "", err
		}
		if fieldOf(overflow, opts.OrderBy) == fieldOffset {
			var tied []int64
			for _, n := range nodes {
				if fieldOf(n, opts.OrderBy) == fieldOffset {
					tied = append(tied, n.ID)
				}
			}
			cur.ListedIDs = tied
		} else {
			cur.IDOffset = last.ID
			cur.HasIDOffset = true
		}
	}

	token, err := listopts.EncodeToken(opts, cur)
	if err != nil {
		return nil, "", err
	}
	return nodes, token, nil
}

func fieldOf(n *model.Node, f listopts.OrderByField) int64 {
	switch f {
	case listopts.CreateTime:
		return n.CreateTime
	case listopts.LastUpdateTime:
		return n.LastUpdateTime
	default:
		return n.ID
	}
}

func reorderByIDs(nodes []*model.Node, ids []int64) []*model.Node {
	byID := make(map[int64]*model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	out := make([]*model.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}
