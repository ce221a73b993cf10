package epp

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/nkongenelly/genologics/lims"
)

// CopyField copies a field or UDF from one entity onto a UDF of another.
// The source name is first looked up among the source's UDFs and then among
// its raw fields. When DestName is empty, SourceName is reused.
type CopyField struct {
	Source     *lims.Entity
	Dest       *lims.Entity
	SourceName string
	DestName   string
	Log        *zap.Logger
}

// Copy performs the copy and saves the destination. It returns false without
// writing when source and destination already agree. When changelog is
// non-nil, a line describing the change is written before the update so
// operators can trace what scripts did to their records.
func (c *CopyField) Copy(ctx context.Context, changelog io.Writer) (bool, error) {
	destName := c.DestName
	if destName == "" {
		destName = c.SourceName
	}

	value, err := c.sourceValue(ctx)
	if err != nil {
		return false, err
	}

	var oldValue string
	if prev, ok, err := c.Dest.UDF(ctx, destName); err != nil {
		return false, err
	} else if ok {
		oldValue = prev.String()
	}

	if value.String() == oldValue {
		return false, nil
	}

	if changelog != nil {
		fmt.Fprintf(changelog, "%s: udf %q on %s %s changed from %q to %q\n",
			time.Now().Format("2006-01-02 15:04:05"),
			destName, c.Dest.TypeTag(), c.Dest.ID(), oldValue, value.String())
	}
	if c.Log != nil {
		c.Log.Info("copying field",
			zap.String("source", c.Source.URI()),
			zap.String("dest", c.Dest.URI()),
			zap.String("udf", destName),
			zap.String("from", oldValue),
			zap.String("to", value.String()))
	}

	if err := c.Dest.SetUDF(ctx, destName, value); err != nil {
		return false, err
	}
	if err := c.Dest.Put(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CopyField) sourceValue(ctx context.Context) (lims.Value, error) {
	if v, ok, err := c.Source.UDF(ctx, c.SourceName); err != nil {
		return lims.Value{}, err
	} else if ok {
		return v, nil
	}
	raw, err := c.Source.Field(ctx, c.SourceName)
	if err != nil {
		return lims.Value{}, err
	}
	return lims.StringValue(raw), nil
}
