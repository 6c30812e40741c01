package mdm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

type treeClient struct {
	client  *client
	modelID string
}

func (t *treeClient) ModelID() string {
	return t.modelID
}

func (t *treeClient) ListDeclaredTypes(ctx context.Context) (DeclaredTypes, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-datatypes")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	list := listDTO[dataTypeDTO]{}
	_, err = t.client.do(ctx, http.MethodGet, t.modelPath()+"/dataTypes?all=true", nil, &list)
	if err != nil {
		return DeclaredTypes{}, err
	}

	types, err := convertAll(list.Items, dataTypeDTO.toDataType)
	if err != nil {
		return DeclaredTypes{}, err
	}

	return NewDeclaredTypes(types), nil
}

func (t *treeClient) ListChildren(ctx context.Context, parentID string) ([]Container, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-dataclasses")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	list := listDTO[dataClassDTO]{}
	_, err = t.client.do(ctx, http.MethodGet, t.childrenPath(parentID)+"?all=true", nil, &list)
	if err != nil {
		return nil, err
	}

	children, err := convertAll(list.Items, dataClassDTO.toContainer)
	if err != nil {
		return nil, err
	}

	for i := range children {
		if children[i].ParentID == "" {
			children[i].ParentID = parentID
		}
	}

	return children, nil
}

func (t *treeClient) Container(ctx context.Context, id string) (*Container, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-dataclass")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	dto := dataClassDTO{}
	_, err = t.client.do(ctx, http.MethodGet, t.modelPath()+"/dataClasses/"+url.PathEscape(id), nil, &dto)
	if err != nil {
		return nil, err
	}

	c, err := dto.toContainer()
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (t *treeClient) CreateContainer(ctx context.Context, parentID string, nc NewContainer) (*Container, error) {
	var err error
	ctx, span := tracer.Start(ctx, "create-dataclass")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	dto := dataClassDTO{}
	_, err = t.client.do(ctx, http.MethodPost, t.childrenPath(parentID), newDataClassDTO(nc), &dto)
	if err != nil {
		return nil, err
	}

	c, err := dto.toContainer()
	if err != nil {
		return nil, err
	}

	if c.ParentID == "" {
		c.ParentID = parentID
	}

	return &c, nil
}

func (t *treeClient) UpdateContainer(ctx context.Context, parentID, id string, nc NewContainer) (*Container, error) {
	var err error
	ctx, span := tracer.Start(ctx, "update-dataclass")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	dto := dataClassDTO{}
	_, err = t.client.do(ctx, http.MethodPut, t.childrenPath(parentID)+"/"+url.PathEscape(id), newDataClassDTO(nc), &dto)
	if err != nil {
		return nil, err
	}

	c, err := dto.toContainer()
	if err != nil {
		return nil, err
	}

	if c.ParentID == "" {
		c.ParentID = parentID
	}

	return &c, nil
}

func (t *treeClient) ListLeaves(ctx context.Context, containerID string) ([]Leaf, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-dataelements")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	list := listDTO[dataElementDTO]{}
	_, err = t.client.do(ctx, http.MethodGet, t.leavesPath(containerID)+"?all=true", nil, &list)
	if err != nil {
		return nil, err
	}

	leaves, err := convertAll(list.Items, dataElementDTO.toLeaf)
	if err != nil {
		return nil, err
	}

	for i := range leaves {
		if leaves[i].ContainerID == "" {
			leaves[i].ContainerID = containerID
		}
	}

	return leaves, nil
}

func (t *treeClient) UpsertLeaf(ctx context.Context, containerID string, in LeafInput) (*Leaf, error) {
	var err error
	ctx, span := tracer.Start(ctx, "upsert-dataelement")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := dataElementInputDTO{
		Label:           in.Label,
		Description:     in.Value,
		DataType:        in.DataTypeID,
		MinMultiplicity: in.Multiplicity.Min,
		MaxMultiplicity: in.Multiplicity.Max,
		Index:           in.Index,
	}

	method, path := http.MethodPost, t.leavesPath(containerID)
	if in.ID != "" {
		method, path = http.MethodPut, path+"/"+url.PathEscape(in.ID)
	}

	dto := dataElementDTO{}
	_, err = t.client.do(ctx, method, path, body, &dto)
	if err != nil {
		return nil, err
	}

	l, err := dto.toLeaf()
	if err != nil {
		return nil, err
	}

	if l.ContainerID == "" {
		l.ContainerID = containerID
	}

	return &l, nil
}

func (t *treeClient) modelPath() string {
	return "/dataModels/" + url.PathEscape(t.modelID)
}

func (t *treeClient) childrenPath(parentID string) string {
	if parentID == "" {
		return t.modelPath() + "/dataClasses"
	}
	return t.modelPath() + "/dataClasses/" + url.PathEscape(parentID) + "/dataClasses"
}

func (t *treeClient) leavesPath(containerID string) string {
	return t.modelPath() + "/dataClasses/" + url.PathEscape(containerID) + "/dataElements"
}

func newDataClassDTO(nc NewContainer) dataClassDTO {
	return dataClassDTO{
		Label:           nc.Label,
		Description:     nc.Description,
		MinMultiplicity: nc.Multiplicity.Min,
		MaxMultiplicity: nc.Multiplicity.Max,
		Index:           nc.Index,
	}
}
