// Package input loads the node, link and bridge tables consumed by the
// optimizer from CSV files. Richer ingestion (GIS, shapefiles, remote
// hazard services) lives upstream and is out of scope here; these loaders
// only accept the already-flattened tables.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/resilinet/bridgeopt/core/model"
)

// LoadNodes reads a node table with header "node_id".
func LoadNodes(path string) ([]model.NodeID, error) {
	rows, err := readTable(path, 1)
	if err != nil {
		return nil, err
	}
	nodes := make([]model.NodeID, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, model.NodeID(row[0]))
	}
	return nodes, nil
}

// LoadLinks reads a link table with header
// "link_id,from_node,to_node,length,freeflow_speed".
func LoadLinks(path string) ([]model.EdgeSpec, error) {
	rows, err := readTable(path, 5)
	if err != nil {
		return nil, err
	}
	links := make([]model.EdgeSpec, 0, len(rows))
	for i, row := range rows {
		length, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad length %q", path, i+2, row[3])
		}
		speed, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad freeflow_speed %q", path, i+2, row[4])
		}
		links = append(links, model.EdgeSpec{
			LinkID:        row[0],
			From:          model.NodeID(row[1]),
			To:            model.NodeID(row[2]),
			Length:        length,
			FreeFlowSpeed: speed,
		})
	}
	return links, nil
}

// LoadBridges reads a bridge table with header
// "bridge_id,link_id,adt,damage_state".
func LoadBridges(path string) ([]model.Bridge, error) {
	rows, err := readTable(path, 4)
	if err != nil {
		return nil, err
	}
	bridges := make([]model.Bridge, 0, len(rows))
	for i, row := range rows {
		adt, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad adt %q", path, i+2, row[2])
		}
		state, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad damage_state %q", path, i+2, row[3])
		}
		b := model.Bridge{
			ID:     row[0],
			LinkID: row[1],
			ADT:    adt,
			State:  model.DamageState(state),
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		bridges = append(bridges, b)
	}
	return bridges, nil
}

// readTable reads all records after the header and checks the column count.
func readTable(path string, columns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty table", path)
		}
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	var rows [][]string
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, line, err)
		}
		if len(row) != columns {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", path, line, columns, len(row))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
