package materializer

import (
	"context"
	"fmt"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatap"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/rs/zerolog"
)

// walker performs one save. The tree is written top-down and strictly in sequence
// since every child needs the id of its parent.
type walker struct {
	tree   mdm.TreeClient
	types  mdm.DeclaredTypes
	log    zerolog.Logger
	result *Result

	// children of each parent listed during this save, including the ones created by it
	children map[string][]mdm.Container
}

const modelRoot string = ""

func (w *walker) catalogue(ctx context.Context, c domain.Catalogue) error {
	container, err := w.ensureContainer(ctx, modelRoot, dcatap.KindCatalogue, dcatap.Label(dcatap.KindCatalogue, c.Title), c.Description, -1)
	if err != nil {
		return fmt.Errorf("failed to save catalogue %q: %w", c.Title, err)
	}
	w.result.CatalogueID = container.ID

	if err = w.leaves(ctx, domain.Path{}, dcatap.KindCatalogue, container.ID, dcatap.CatalogueValues(c)); err != nil {
		return err
	}

	for i, d := range c.Datasets {
		if err = w.dataset(ctx, domain.Path{}.Child(domain.Datasets, i), container.ID, i, d); err != nil {
			return err
		}
	}

	for i, s := range c.DataServices {
		p := domain.Path{}.Child(domain.DataServices, i)

		ds, err := w.ensureContainer(ctx, container.ID, dcatap.KindDataService, dcatap.Label(dcatap.KindDataService, s.Title), s.Description, i)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", p, err)
		}
		w.result.Containers[p.String()] = ds.ID

		if err = w.leaves(ctx, p, dcatap.KindDataService, ds.ID, dcatap.DataServiceValues(s)); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) dataset(ctx context.Context, p domain.Path, catalogueID string, index int, d domain.Dataset) error {
	container, err := w.ensureContainer(ctx, catalogueID, dcatap.KindDataset, dcatap.Label(dcatap.KindDataset, d.Title), d.Description, index)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", p, err)
	}
	w.result.Containers[p.String()] = container.ID

	if err = w.leaves(ctx, p, dcatap.KindDataset, container.ID, dcatap.DatasetValues(d)); err != nil {
		return err
	}

	for i, dist := range d.Distributions {
		dp := p.Child(domain.Distributions, i)

		label := dcatap.DistributionLabel(d.Title, dist.Format)
		description := dcatap.DistributionDescription(d.Title, dist.Format)

		dc, err := w.ensureContainer(ctx, container.ID, dcatap.KindDistribution, label, description, i)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", dp, err)
		}
		w.result.Containers[dp.String()] = dc.ID

		if err = w.leaves(ctx, dp, dcatap.KindDistribution, dc.ID, dcatap.DistributionValues(dist)); err != nil {
			return err
		}
	}

	return w.schema(ctx, p, container.ID, d.Title, d.Schema)
}

// schema stores the rows of a dataset schema as data elements of its singleton Schema
// container. Rows are matched by label, rows without a label are not stored.
func (w *walker) schema(ctx context.Context, datasetPath domain.Path, datasetID, datasetTitle string, fields []domain.SchemaField) error {
	container, err := w.ensureContainer(ctx, datasetID, dcatap.KindSchema, dcatap.SchemaLabel(datasetTitle), "", 0)
	if err != nil {
		return fmt.Errorf("failed to save schema of %q: %w", datasetTitle, err)
	}
	w.result.Containers[slotKey(datasetPath, domain.SchemaFields)] = container.ID

	existing, err := w.existingLeaves(ctx, container.ID)
	if err != nil {
		return err
	}

	for i, f := range fields {
		fp := datasetPath.Child(domain.SchemaFields, i)

		if f.Label == "" {
			if !f.IsEmpty() {
				w.skip(fp, "", "schema field has no label")
			}
			continue
		}

		dt, ok := w.schemaFieldType(fp, f)
		if !ok {
			continue
		}

		in := mdm.LeafInput{
			Label:        f.Label,
			Value:        f.Description,
			DataTypeID:   dt.ID,
			Multiplicity: mdm.Multiplicity(dcatap.SchemaFieldMultiplicity),
			Index:        i,
		}

		if err = w.writeLeaf(ctx, fp, container.ID, existing, in); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) schemaFieldType(p domain.Path, f domain.SchemaField) (mdm.DataType, bool) {
	if f.DataType.ID != "" {
		if dt, ok := w.types.ByID(f.DataType.ID); ok {
			return dt, true
		}
	}

	name := f.DataType.Label
	if name == "" {
		name = dcatap.FallbackType
	}

	return w.resolveType(p, f.Label, name)
}

func (w *walker) directory(ctx context.Context, d domain.Directory) error {
	for i, a := range d.Agents {
		if err := w.agent(ctx, domain.Path{}.Child(domain.Agents, i), modelRoot, i, a); err != nil {
			return err
		}
	}

	for i, lr := range d.LegalResources {
		p := domain.Path{}.Child(domain.LegalResources, i)

		container, err := w.ensureContainer(ctx, modelRoot, dcatap.KindLegalResource, dcatap.LegalResourceLabel(lr.Jurisdiction, lr.LegalAct), "", -1)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", p, err)
		}
		w.result.Containers[p.String()] = container.ID

		if err = w.leaves(ctx, p, dcatap.KindLegalResource, container.ID, dcatap.LegalResourceValues(lr)); err != nil {
			return err
		}

		for j, a := range lr.Agents {
			if err = w.agent(ctx, p.Child(domain.Agents, j), container.ID, j, a); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *walker) agent(ctx context.Context, p domain.Path, parentID string, index int, a domain.Agent) error {
	container, err := w.ensureContainer(ctx, parentID, dcatap.KindAgent, dcatap.Label(dcatap.KindAgent, a.Name), a.Description, index)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", p, err)
	}
	w.result.Containers[p.String()] = container.ID

	if err = w.leaves(ctx, p, dcatap.KindAgent, container.ID, dcatap.AgentValues(a)); err != nil {
		return err
	}

	contacts := []domain.Contact{}
	for _, c := range a.Contacts {
		if !c.IsEmpty() {
			contacts = append(contacts, c)
		}
	}

	return w.contacts(ctx, p, container.ID, contacts)
}

// contacts writes the numbered Mail and Telef. elements of an agent. Elements numbered
// beyond the current contacts are emptied, also when no contacts are left.
func (w *walker) contacts(ctx context.Context, p domain.Path, agentID string, contacts []domain.Contact) error {
	cp := slotKey(p, domain.Contacts)

	var contactContainer mdm.Container

	if len(contacts) == 0 {
		siblings, err := w.listChildren(ctx, agentID)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", cp, err)
		}

		found := false
		for _, c := range siblings {
			if c.Label == dcatap.ContactLabel {
				contactContainer, found = c, true
				break
			}
		}

		if !found {
			return nil
		}
	} else {
		var err error
		contactContainer, err = w.ensureContainer(ctx, agentID, dcatap.KindContact, dcatap.ContactLabel, "", 0)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", cp, err)
		}
	}
	w.result.Containers[cp] = contactContainer.ID

	existing, err := w.existingLeaves(ctx, contactContainer.ID)
	if err != nil {
		return err
	}

	values := append(dcatap.ContactValues(contacts), staleContactValues(existing, len(contacts))...)

	return w.writeLeaves(ctx, p, dcatap.KindContact, contactContainer.ID, existing, values)
}

// staleContactValues empties the stored contact elements numbered from count on, in
// contact order.
func staleContactValues(existing map[string]mdm.Leaf, count int) []dcatap.Value {
	last := -1
	for label := range existing {
		if _, i, ok := dcatap.ParseContactFieldLabel(label); ok && i > last {
			last = i
		}
	}

	values := []dcatap.Value{}
	for i := count; i <= last; i++ {
		for _, base := range []string{dcatap.LabelMail, dcatap.LabelPhone} {
			label := dcatap.ContactFieldLabel(base, i)
			if _, ok := existing[label]; ok {
				values = append(values, dcatap.Value{Label: label, Value: ""})
			}
		}
	}

	return values
}

// ensureContainer returns the child of parentID labelled label, creating it when there
// is none. A negative index keeps the index of an existing container and appends a new one.
func (w *walker) ensureContainer(ctx context.Context, parentID string, kind dcatap.Kind, label, description string, index int) (mdm.Container, error) {
	siblings, err := w.listChildren(ctx, parentID)
	if err != nil {
		return mdm.Container{}, err
	}

	for i, c := range siblings {
		if c.Label != label {
			continue
		}

		if c.Description == description && (index < 0 || c.Index == index) {
			return c, nil
		}

		if index < 0 {
			index = c.Index
		}

		updated, err := w.tree.UpdateContainer(ctx, parentID, c.ID, mdm.NewContainer{
			Label:        label,
			Description:  description,
			Multiplicity: c.Multiplicity,
			Index:        index,
		})
		if err != nil {
			return mdm.Container{}, err
		}

		siblings[i] = *updated
		return *updated, nil
	}

	if index < 0 {
		index = len(siblings)
	}

	created, err := w.tree.CreateContainer(ctx, parentID, mdm.NewContainer{
		Label:        label,
		Description:  description,
		Multiplicity: mdm.Multiplicity(dcatap.ContainerMultiplicity(kind)),
		Index:        index,
	})
	if err != nil {
		return mdm.Container{}, err
	}

	w.log.Debug().Str("label", label).Str("id", created.ID).Msg("created container")
	w.children[parentID] = append(w.children[parentID], *created)

	return *created, nil
}

func (w *walker) listChildren(ctx context.Context, parentID string) ([]mdm.Container, error) {
	if children, ok := w.children[parentID]; ok {
		return children, nil
	}

	children, err := w.tree.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	w.children[parentID] = children
	return children, nil
}

// leaves writes the simple fields of one container. Values that are empty and not yet
// stored are left out.
func (w *walker) leaves(ctx context.Context, p domain.Path, kind dcatap.Kind, containerID string, values []dcatap.Value) error {
	existing, err := w.existingLeaves(ctx, containerID)
	if err != nil {
		return err
	}

	return w.writeLeaves(ctx, p, kind, containerID, existing, values)
}

func (w *walker) writeLeaves(ctx context.Context, p domain.Path, kind dcatap.Kind, containerID string, existing map[string]mdm.Leaf, values []dcatap.Value) error {
	for i, v := range values {
		if _, stored := existing[v.Label]; !stored && v.Value == "" {
			continue
		}

		field, ok := fieldFor(kind, v.Label)
		if !ok {
			w.skip(p, v.Label, "no field mapping")
			continue
		}

		dt, ok := w.resolveType(p, v.Label, field.TypeName)
		if !ok {
			continue
		}

		if dt.IsEnumeration() && v.Value != "" && !dt.Accepts(v.Value) {
			w.log.Warn().Str("path", p.String()).Str("label", v.Label).Str("value", v.Value).Str("type", dt.Label).Msg("value is not one of the enumeration values")
		}

		in := mdm.LeafInput{
			Label:        v.Label,
			Value:        v.Value,
			DataTypeID:   dt.ID,
			Multiplicity: mdm.Multiplicity(field.Multiplicity),
			Index:        i,
		}

		if err := w.writeLeaf(ctx, p, containerID, existing, in); err != nil {
			return err
		}
	}

	return nil
}

func fieldFor(kind dcatap.Kind, label string) (dcatap.Field, bool) {
	if kind == dcatap.KindContact {
		if base, _, ok := dcatap.ParseContactFieldLabel(label); ok {
			label = base
		}
	}
	return dcatap.FieldFor(kind, label)
}

func (w *walker) existingLeaves(ctx context.Context, containerID string) (map[string]mdm.Leaf, error) {
	leaves, err := w.tree.ListLeaves(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data elements of %s: %w", containerID, err)
	}

	byLabel := make(map[string]mdm.Leaf, len(leaves))
	for _, l := range leaves {
		byLabel[l.Label] = l
	}

	return byLabel, nil
}

// writeLeaf updates the stored element with the same label, or creates one. A stored
// element that already holds the value is not rewritten.
func (w *walker) writeLeaf(ctx context.Context, p domain.Path, containerID string, existing map[string]mdm.Leaf, in mdm.LeafInput) error {
	if stored, ok := existing[in.Label]; ok {
		if stored.Value == in.Value && stored.DataType.ID == in.DataTypeID && stored.Index == in.Index {
			return nil
		}
		in.ID = stored.ID
	}

	_, err := w.tree.UpsertLeaf(ctx, containerID, in)
	if err != nil {
		return fmt.Errorf("failed to save %q of %s: %w", in.Label, describe(p), err)
	}

	return nil
}

// resolveType looks up a declared type by name, falling back to String. The field is
// skipped when neither is declared.
func (w *walker) resolveType(p domain.Path, label, typeName string) (mdm.DataType, bool) {
	if dt, ok := w.types.Lookup(typeName); ok {
		return dt, true
	}

	if dt, ok := w.types.Lookup(dcatap.FallbackType); ok {
		w.log.Warn().Str("path", p.String()).Str("label", label).Str("type", typeName).Msgf("type is not declared, using %s", dcatap.FallbackType)
		return dt, true
	}

	w.skip(p, label, fmt.Sprintf("neither %s nor %s is declared", typeName, dcatap.FallbackType))
	return mdm.DataType{}, false
}

func (w *walker) skip(p domain.Path, label, reason string) {
	w.log.Warn().Str("path", p.String()).Str("label", label).Msgf("skipping field: %s", reason)
	w.result.Skipped = append(w.result.Skipped, SkippedField{Path: p.String(), Label: label, Reason: reason})
}

// slotKey names a container that a row owns without being a row itself, e.g. datasets.0.schema
func slotKey(p domain.Path, slot domain.Slot) string {
	if len(p) == 0 {
		return string(slot)
	}
	return p.String() + "." + string(slot)
}

func describe(p domain.Path) string {
	if len(p) == 0 {
		return "catalogue"
	}
	return p.String()
}
