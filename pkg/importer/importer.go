package importer

import (
	"fmt"
	"os"

	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/onnx"
)

// ConvertOnnxToZmf loads an ONNX model from a file and will (eventually) convert it to a ZMF model.
func ConvertOnnxToZmf(path string) (*zmf.Model, error) {
	onnxModel, err := LoadOnnxModel(path)
	if err != nil {
		return nil, err
	}

	// TODO: Add the logic to convert the onnxModel to a zerfoo/model.Model
	fmt.Printf("Successfully loaded ONNX model: %s\n", onnxModel.GetGraph().GetName())

	return nil, fmt.Errorf("conversion logic not yet implemented")
}

// LoadOnnxModel reads an ONNX model file and returns the parsed ModelProto.
func LoadOnnxModel(path string) (*onnx.ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ONNX file: %w", err)
	}

	model := &onnx.ModelProto{}
	if err := onnx.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ONNX protobuf: %w", err)
	}

	return model, nil
}