package model

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ezoic/crispdm/pkg/errors"
)

// FormatVersion is the only supported model file version.
const FormatVersion = "1.0"

// SKLearnModelSpec is the metadata block of an exported model.
type SKLearnModelSpec struct {
	Name           string `json:"name"`                      // e.g. "LinearRegression"
	FormatVersion  string `json:"format_version"`            //
	SKLearnVersion string `json:"sklearn_version,omitempty"` // set by Python exporters
}

// SKLearnLinearRegressionParams holds the fitted line in the layout
// scikit-learn's LinearRegression uses (coef_ and intercept_).
type SKLearnLinearRegressionParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
}

// SKLearnModel is the envelope of an exported model.
type SKLearnModel struct {
	ModelSpec SKLearnModelSpec `json:"model_spec"`
	Params    json.RawMessage  `json:"params"`
}

// LoadSKLearnModelFromReader decodes and validates a model envelope.
func LoadSKLearnModelFromReader(r io.Reader) (*SKLearnModel, error) {
	var model SKLearnModel
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&model); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}

	if model.ModelSpec.FormatVersion == "" {
		return nil, errors.NewValueError("LoadSKLearnModel", "format_version is required")
	}
	if model.ModelSpec.FormatVersion != FormatVersion {
		return nil, errors.NewValueError("LoadSKLearnModel",
			fmt.Sprintf("unsupported format version: %s", model.ModelSpec.FormatVersion))
	}
	if model.ModelSpec.Name == "" {
		return nil, errors.NewValueError("LoadSKLearnModel", "model name is required")
	}

	return &model, nil
}

// LoadLinearRegressionParams extracts LinearRegression parameters from an envelope.
func LoadLinearRegressionParams(model *SKLearnModel) (*SKLearnLinearRegressionParams, error) {
	if model.ModelSpec.Name != "LinearRegression" {
		return nil, errors.NewValueError("LoadLinearRegressionParams",
			fmt.Sprintf("expected LinearRegression, got %s", model.ModelSpec.Name))
	}

	var params SKLearnLinearRegressionParams
	if err := json.Unmarshal(model.Params, &params); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal params")
	}

	if len(params.Coefficients) == 0 {
		return nil, errors.NewValueError("LoadLinearRegressionParams",
			"coefficients cannot be empty")
	}
	if params.NFeatures != len(params.Coefficients) {
		return nil, errors.NewValueError("LoadLinearRegressionParams",
			fmt.Sprintf("n_features (%d) does not match coefficients length (%d)",
				params.NFeatures, len(params.Coefficients)))
	}

	return &params, nil
}

// ExportSKLearnModel writes params wrapped in a version 1.0 envelope as
// indented JSON.
func ExportSKLearnModel(modelName string, params interface{}, w io.Writer) error {
	model := SKLearnModel{
		ModelSpec: SKLearnModelSpec{
			Name:          modelName,
			FormatVersion: FormatVersion,
		},
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}
	model.Params = paramsJSON

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}

	return nil
}
