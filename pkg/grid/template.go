package grid

import (
	"github.com/matzehuels/tagsheet/pkg/errors"
	"github.com/matzehuels/tagsheet/pkg/svgdoc"
)

// DefaultContainerID is the id Inkscape gives the first layer of a new
// drawing.
const DefaultContainerID = "layer1"

// LocateTemplate finds the group with the given id below root and returns it
// together with its first direct child group, which serves as the template.
func LocateTemplate(root *svgdoc.Element, containerID string) (container, template *svgdoc.Element, err error) {
	if root == nil {
		return nil, nil, errors.New(errors.ErrCodeContainerNotFound, "document is empty")
	}

	matches := svgdoc.Descendants(root, func(e *svgdoc.Element) bool {
		if !e.IsSVG("g") {
			return false
		}
		id, ok := e.Attr("id")
		return ok && id == containerID
	})
	if len(matches) == 0 {
		return nil, nil, errors.New(errors.ErrCodeContainerNotFound, "layer %q not found", containerID)
	}
	container = matches[0]

	for _, c := range container.ChildElements() {
		if c.IsSVG("g") {
			return container, c, nil
		}
	}
	return nil, nil, errors.New(errors.ErrCodeEmptyTemplate,
		"layer %q contains no groups; the template must have at least one group inside it", containerID)
}

// Assemble replaces the groups in container with the generated tags. Every
// direct child group other than template is removed first, the tags are
// appended, and template is removed last.
func Assemble(container, template *svgdoc.Element, tags []PlacedTag) error {
	if container.IndexOf(template) < 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "template is not a child of layer <%s>", container.Name())
	}

	for _, c := range container.ChildElements() {
		if c != template && c.IsSVG("g") {
			container.Remove(c)
		}
	}
	for _, t := range tags {
		container.Append(t.Node)
	}
	container.Remove(template)
	return nil
}
