package report

import (
	"io"
	"strconv"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

// Property names written on CycloneDX components.
const (
	PropTargetVariable = "modelmaster:targetVariable"
	PropTask           = "modelmaster:task"
	PropIsBest         = "modelmaster:isBest"
	PropRank           = "modelmaster:rank"
)

// BOM converts doc into a CycloneDX document: the dataset is the metadata
// component and every candidate is a machine-learning-model component whose
// model card carries its metrics.
func BOM(doc Document) *cdx.BOM {
	bom := cdx.NewBOM()
	if doc.RunID != "" {
		bom.SerialNumber = "urn:uuid:" + doc.RunID
	}

	dataset := &cdx.Component{
		BOMRef: "dataset",
		Type:   cdx.ComponentTypeData,
		Name:   doc.Dataset,
		Properties: &[]cdx.Property{
			{Name: PropTargetVariable, Value: doc.TargetVariable},
			{Name: PropTask, Value: doc.Task},
		},
	}
	bom.Metadata = &cdx.Metadata{
		Timestamp: doc.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Component: dataset,
		Tools: &cdx.ToolsChoice{
			Components: &[]cdx.Component{{
				Type:    cdx.ComponentTypeApplication,
				Name:    ToolName,
				Version: ToolVersion(),
			}},
		},
	}

	comps := make([]cdx.Component, 0, len(doc.Models))
	refs := make([]string, 0, len(doc.Models))
	for _, m := range doc.Models {
		ref := "model-" + strconv.Itoa(m.Rank)
		refs = append(refs, ref)
		card := &cdx.MLModelCard{ModelParameters: &cdx.MLModelParameters{Task: doc.Task}}
		if pm := performanceMetrics(m); pm != nil {
			card.QuantitativeAnalysis = &cdx.MLQuantitativeAnalysis{PerformanceMetrics: pm}
		}
		comps = append(comps, cdx.Component{
			BOMRef:    ref,
			Type:      cdx.ComponentTypeMachineLearningModel,
			Name:      m.Name,
			ModelCard: card,
			Properties: &[]cdx.Property{
				{Name: PropRank, Value: strconv.Itoa(m.Rank)},
				{Name: PropIsBest, Value: strconv.FormatBool(m.IsBest)},
			},
		})
	}
	bom.Components = &comps
	bom.Dependencies = &[]cdx.Dependency{{Ref: "dataset", Dependencies: &refs}}
	return bom
}

func performanceMetrics(m ModelRow) *[]cdx.MLPerformanceMetric {
	var out []cdx.MLPerformanceMetric
	add := func(name string, v *float64) {
		if v != nil {
			out = append(out, cdx.MLPerformanceMetric{Type: name, Value: strconv.FormatFloat(*v, 'f', -1, 64)})
		}
	}
	add("r2", m.R2)
	add("rmse", m.RMSE)
	add("mae", m.MAE)
	add("mse", m.MSE)
	add("accuracy", m.Accuracy)
	if len(out) == 0 {
		return nil
	}
	return &out
}

func encodeCycloneDX(w io.Writer, doc Document, xml bool) error {
	format := cdx.BOMFileFormatJSON
	if xml {
		format = cdx.BOMFileFormatXML
	}
	enc := cdx.NewBOMEncoder(w, format)
	enc.SetPretty(true)
	return enc.Encode(BOM(doc))
}
